package parser

import (
	"fmt"

	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/span"
)

// Diagnostic codes reported by the parser.
const (
	CodeExtensionNotEnabled     = "ExtensionNotEnabled"
	CodeInvalidModifiers        = "InvalidModifiers"
	CodeComponentPartNotAllowed = "ComponentPartNotAllowed"
	CodeComponentPartMissing    = "ComponentPartMissing"
	CodeComponentPartInvalid    = "ComponentPartInvalid"
	CodeEmptyName               = "EmptyName"
	CodeEmptyTextValue          = "EmptyTextValue"
	CodeEmptyUnit               = "EmptyUnit"
	CodeDivisionByZero          = "DivisionByZero"
	CodeParseInt                = "ParseInt"
	CodeParseFloat              = "ParseFloat"
	CodeInvalidQuantity         = "InvalidQuantity"
	CodeEmptyMetadataKey        = "EmptyMetadataKey"

	CodeEmptyMetadataValue   = "EmptyMetadataValue"
	CodeComponentPartIgnored = "ComponentPartIgnored"
)

const (
	ingredientKind = "ingredient"
	cookwareKind   = "cookware"
	timerKind      = "timer"
)

func partInvalid(code, container, what, reason string, labels ...diag.Label) diag.Diagnostic {
	return diag.NewError(code, fmt.Sprintf("Invalid %s %s: %s", container, what, reason), labels...)
}

func partMissing(container, what string, at span.Span) diag.Diagnostic {
	return diag.NewError(CodeComponentPartMissing,
		fmt.Sprintf("A %s is missing: %s", container, what),
		diag.At(at, "expected "+what))
}

func partNotAllowed(container, what string, remove span.Span, help string) diag.Diagnostic {
	return diag.NewError(CodeComponentPartNotAllowed,
		fmt.Sprintf("A %s cannot have: %s", container, what),
		diag.At(remove, "remove this")).WithHelp("%s", help)
}

func partIgnored(container, what string, ignored span.Span, help string) diag.Diagnostic {
	return diag.NewWarning(CodeComponentPartIgnored,
		fmt.Sprintf("A %s cannot have %s, it will be ignored", container, what),
		diag.At(ignored, "this is ignored")).WithHelp("%s", help)
}

func extensionNotEnabled(at span.Span, name string) diag.Diagnostic {
	return diag.NewError(CodeExtensionNotEnabled,
		"Tried to use a disabled extension: "+name,
		diag.At(at, "used here")).
		WithHelp("Remove the usage or enable the %s extension", name)
}

func invalidModifiers(at span.Span, reason, help string) diag.Diagnostic {
	return diag.NewError(CodeInvalidModifiers,
		"Invalid ingredient modifiers: "+reason, diag.At(at)).WithHelp("%s", help)
}
