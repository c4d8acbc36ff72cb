package analysis

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
)

var (
	defineValues    = []string{"all", "components", "steps", "text"}
	duplicateValues = []string{"new", "reference"}
	autoScaleValues = []string{"true", "false", "default"}
)

func (w *walker) metadata(m *ast.Metadata) {
	key := m.Key.String()
	value := m.Value.String()

	if w.ext.Has(extensions.Modes) && len(key) >= 2 && strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
		w.specialKey(strings.TrimSpace(key[1:len(key)-1]), value, m)
		return
	}

	if err := w.content.Metadata.Insert(key, value); err != nil {
		w.report.Warn(diag.NewWarning(CodeInvalidMetadataValue,
			fmt.Sprintf("Invalid value for key: %s. Treating it as a regular metadata key.", key),
			diag.At(m.Key.Span(), "this key"), diag.At(m.Value.Span(), "does not support this value")).
			WithHelp("Rich information for this metadata will not be available").
			WithNote("%s", err.Error()))
		return
	}
	if key == "servings" {
		s := m.Value.Span()
		w.servingsSpan = &s
	}
}

func (w *walker) specialKey(key, value string, m *ast.Metadata) {
	invalid := func(possible []string) {
		w.report.AddError(diag.NewError(CodeInvalidSpecialMetadataValue,
			fmt.Sprintf("Invalid value for '%s': %s", key, value),
			diag.At(m.Key.Span()), diag.At(m.Value.Span(), "this value is not valid")).
			WithHelp("Possible values are: %s", strings.Join(possible, ", ")))
	}

	switch strings.ToLower(key) {
	case "define", "mode":
		switch strings.ToLower(value) {
		case "all", "default":
			w.define = defineAll
		case "components", "ingredients":
			w.define = defineComponents
		case "steps":
			w.define = defineSteps
		case "text":
			w.define = defineText
		default:
			invalid(defineValues)
		}
	case "duplicate":
		switch strings.ToLower(value) {
		case "new", "default":
			w.duplicate = duplicateNew
		case "reference", "ref":
			w.duplicate = duplicateReference
		default:
			invalid(duplicateValues)
		}
	case "auto scale", "auto_scale":
		switch strings.ToLower(value) {
		case "true":
			w.autoScale = autoScaleOn
		case "false":
			w.autoScale = autoScaleOff
		case "default":
			w.autoScale = autoScaleUnset
		default:
			invalid(autoScaleValues)
		}
	default:
		w.report.Warn(diag.NewWarning(CodeUnknownSpecialMetadataKey,
			"Ignoring unknown special metadata key: "+key,
			diag.At(m.Key.Span())))
	}
}
