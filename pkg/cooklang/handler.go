// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cooklang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/defaults"
	"github.com/NVIDIA/cooklang/pkg/diag"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/scale"
	"github.com/NVIDIA/cooklang/pkg/serializer"
	"github.com/NVIDIA/cooklang/pkg/server"
)

// defaultRecipeName is used when a request does not name its recipe.
const defaultRecipeName = "recipe"

var (
	// unitsCacheTTL can be overridden for testing or custom configurations
	unitsCacheTTL = defaults.UnitsCacheTTL
)

// RecipeResponse is the body of a successful parse or scale request.
type RecipeResponse struct {
	Recipe      any               `json:"recipe"`
	Ingredients []scale.ListEntry `json:"ingredients,omitempty"`
	Report      diag.Report       `json:"report"`
}

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	Value convert.Value `json:"value"`
	Unit  string        `json:"unit"`
	Text  string        `json:"text"`
}

// UnitsResponse is the body of the units listing.
type UnitsResponse struct {
	Count convert.UnitCount `json:"count"`
	Units []convert.Summary `json:"units"`
}

// HandleParse parses and analyzes the recipe sent as the POST body. The
// optional name query parameter names the recipe and strict=true turns
// warnings into errors. A recipe with errors is answered with 422 and the
// full report in the error details.
func (p *Parser) HandleParse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ParseHandlerTimeout)
	defer cancel()

	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	strict, err := boolParam(r, "strict")
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid query parameter", nil)
		return
	}

	name, recipe, report, ok := p.parseRequest(ctx, w, r, strict)
	if !ok {
		return
	}

	slog.Debug("parse request",
		"name", name,
		"warnings", len(report.Warnings),
	)

	serializer.RespondJSON(w, http.StatusOK, RecipeResponse{Recipe: recipe, Report: report})
}

// HandleScale parses the recipe sent as the POST body and scales it.
// servings selects the target serving count, default the recipe's own.
// system converts every quantity to the best unit of metric or imperial
// and ingredients=true adds the merged ingredient list.
func (p *Parser) HandleScale(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ParseHandlerTimeout)
	defer cancel()

	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	q := r.URL.Query()
	servings := 0
	if s := q.Get("servings"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			server.WriteError(w, r, http.StatusBadRequest, cerrors.ErrCodeInvalidValue,
				"servings must be a positive integer", false, map[string]any{"servings": s})
			return
		}
		servings = n
	}

	var system *convert.System
	if s := q.Get("system"); s != "" {
		sys, err := convert.ParseSystem(s)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Invalid unit system", nil)
			return
		}
		system = &sys
	}

	withList, err := boolParam(r, "ingredients")
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid query parameter", nil)
		return
	}

	name, recipe, report, ok := p.parseRequest(ctx, w, r, false)
	if !ok {
		return
	}

	var scaled *scale.Recipe
	if servings > 0 {
		scaled = scale.ScaleTo(recipe, servings, p.conv)
	} else {
		scaled = scale.DefaultScale(recipe)
	}

	if system != nil {
		if err := scaled.Convert(*system, p.conv); err != nil {
			slog.Warn("some quantities could not be converted",
				"name", name,
				"system", system.String(),
				"error", err,
			)
		}
	}

	resp := RecipeResponse{Recipe: scaled, Report: report}
	if withList {
		resp.Ingredients = scaled.IngredientList(p.conv)
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// HandleConvert converts value from one unit to another with the value,
// from and to query parameters. to is a unit, "best", "metric" or
// "imperial".
func (p *Parser) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	var missing []string
	for _, k := range []string{"value", "from", "to"} {
		if strings.TrimSpace(q.Get(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		conversions.WithLabelValues("invalid").Inc()
		server.WriteError(w, r, http.StatusBadRequest, cerrors.ErrCodeInvalidRequest,
			"Missing query parameters", false, map[string]any{"missing": missing})
		return
	}

	v, err := convert.ParseValue(q.Get("value"))
	if err != nil {
		conversions.WithLabelValues("invalid").Inc()
		server.WriteErrorFromErr(w, r, err, "Invalid value", nil)
		return
	}

	out, unit, err := p.conv.Convert(v, q.Get("from"), convert.ParseTarget(q.Get("to")))
	if err != nil {
		conversions.WithLabelValues("failed").Inc()
		server.WriteErrorFromErr(w, r, err, "Conversion failed", nil)
		return
	}
	conversions.WithLabelValues("ok").Inc()

	serializer.RespondJSON(w, http.StatusOK, ConvertResponse{
		Value: out,
		Unit:  unit.Symbol(),
		Text:  fmt.Sprintf("%s %s", out, unit),
	})
}

// HandleUnits lists the known units, optionally filtered with the quantity
// and system query parameters.
func (p *Parser) HandleUnits(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	units, err := p.conv.List(convert.Filter{
		Quantity: q.Get("quantity"),
		System:   q.Get("system"),
	})
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid units filter", nil)
		return
	}

	// Set caching headers
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(unitsCacheTTL.Seconds())))

	serializer.RespondJSON(w, http.StatusOK, UnitsResponse{Count: p.conv.Count(), Units: units})
}

// parseRequest reads the recipe in the body of r and runs both passes on
// it. When ok is false the error response has been written.
func (p *Parser) parseRequest(ctx context.Context, w http.ResponseWriter, r *http.Request,
	strict bool) (name string, recipe *model.Recipe, report diag.Report, ok bool) {

	name = r.URL.Query().Get("name")
	if name == "" {
		name = defaultRecipeName
	}

	src, err := readBody(w, r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to read recipe", nil)
		return name, nil, report, false
	}

	res, err := p.parseWithContext(ctx, name, src)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to parse recipe", nil)
		return name, nil, report, false
	}

	if strict {
		recipe, report, err = res.StrictResult()
	} else {
		recipe, report, err = res.IntoResult()
	}
	if err != nil {
		server.WriteError(w, r, http.StatusUnprocessableEntity, cerrors.ErrCodeInvalidRecipe,
			"Recipe has errors", false, map[string]any{
				"name":   name,
				"report": report,
			})
		return name, nil, report, false
	}
	return name, recipe, report, true
}

// parseWithContext runs Parse, giving up when ctx is done or after
// defaults.ParseTimeout.
func (p *Parser) parseWithContext(ctx context.Context, name, src string) (diag.PassResult[model.Recipe], error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ParseTimeout)
	defer cancel()

	done := make(chan diag.PassResult[model.Recipe], 1)
	go func() {
		done <- p.Parse(name, src)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return diag.PassResult[model.Recipe]{}, cerrors.WrapWithContext(cerrors.ErrCodeTimeout,
			"recipe parsing timed out", ctx.Err(), map[string]any{"name": name})
	}
}

// readBody reads at most defaults.MaxRecipeBytes of UTF-8 text.
func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	if r.Body == nil {
		return "", cerrors.New(cerrors.ErrCodeInvalidRequest, "request body is empty")
	}
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, defaults.MaxRecipeBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "recipe is too large",
				map[string]any{"limit": maxErr.Limit})
		}
		return "", cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	if !utf8.Valid(data) {
		return "", cerrors.New(cerrors.ErrCodeInvalidRequest, "recipe is not valid UTF-8")
	}
	return string(data), nil
}

func boolParam(r *http.Request, key string) (bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s must be a boolean", key), map[string]any{key: s})
	}
	return b, nil
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	server.WriteError(w, r, http.StatusMethodNotAllowed, cerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{method},
		})
	return false
}
