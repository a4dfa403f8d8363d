package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// The errors package refers to these constants directly.
const (
	CodeNotFound                = "NOT_FOUND"
	CodeSlotNameEmpty           = "SLOT_NAME_EMPTY"
	CodeSlotNotFound            = "SLOT_NOT_FOUND"
	CodeStateImportInvalid      = "STATE_IMPORT_INVALID"
	CodeFieldPathInvalid        = "FIELD_PATH_INVALID"
	CodeCatalogLoadFailed       = "CATALOG_LOAD_FAILED"
	CodeTechniqueUnknown        = "TECHNIQUE_UNKNOWN"
	CodeTechniqueInsufficientKi = "TECHNIQUE_INSUFFICIENT_KI"
	CodeResourceAmountInvalid   = "RESOURCE_AMOUNT_INVALID"
	CodeCommandUnknown          = "COMMAND_UNKNOWN"
	CodeCommandUsage            = "COMMAND_USAGE"
)

var enUSCatalog = NewCatalog(BaseLocale, map[Code]string{
	CodeNotFound: "Record not found",

	// Slot errors
	CodeSlotNameEmpty: "Slot name cannot be empty",
	CodeSlotNotFound:  "Character slot {{.SlotID}} does not exist",

	// Sheet state errors
	CodeStateImportInvalid: "Import failed: {{.Source}} is not a valid character file",
	CodeFieldPathInvalid:   "Unknown sheet field {{.Path}}",

	// Catalog errors
	CodeCatalogLoadFailed: "Could not load the {{.Catalog}} catalog; using built-in data",

	// Play errors
	CodeTechniqueUnknown:        "Unknown technique {{.Technique}}",
	CodeTechniqueInsufficientKi: "{{.Technique}} needs {{.Cost}} Ki but only {{.Current}} is available",
	CodeResourceAmountInvalid:   "Amount {{.Amount}} is not a valid number",
	CodeCommandUnknown:          "Unknown command {{.Command}}",
	CodeCommandUsage:            "Usage: {{.Usage}}",
})
