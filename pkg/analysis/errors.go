package analysis

// Diagnostic codes reported by the analyzer.
const (
	CodeUnknownTimerUnit               = "UnknownTimerUnit"
	CodeBadTimerUnit                   = "BadTimerUnit"
	CodeReferenceNotFound              = "ReferenceNotFound"
	CodeConflictingReferenceQuantities = "ConflictingReferenceQuantities"
	CodeScalableValueManyConflict      = "ScalableValueManyConflict"
	CodeInvalidSpecialMetadataValue    = "InvalidSpecialMetadataValue"

	CodeUnknownSpecialMetadataKey  = "UnknownSpecialMetadataKey"
	CodeInvalidMetadataValue       = "InvalidMetadataValue"
	CodeIncompatibleUnits          = "IncompatibleUnits"
	CodeTextDefiningIngredients    = "TextDefiningIngredients"
	CodeTextValueInReference       = "TextValueInReference"
	CodeRedundantReferenceModifier = "RedundantReferenceModifier"
	CodeRedundantAutoScaleMarker   = "RedundantAutoScaleMarker"
	CodeComponentInTextMode        = "ComponentInTextMode"
	CodeRecipeNotFound             = "RecipeNotFound"
)
