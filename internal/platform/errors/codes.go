// Package errors provides structured error handling with i18n support.
package errors

import "github.com/louisbranch/kisheet/internal/platform/errors/i18n"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound Code = i18n.CodeNotFound

	// Slot errors
	CodeSlotNameEmpty Code = i18n.CodeSlotNameEmpty
	CodeSlotNotFound  Code = i18n.CodeSlotNotFound

	// Sheet state errors
	CodeStateImportInvalid Code = i18n.CodeStateImportInvalid
	CodeFieldPathInvalid   Code = i18n.CodeFieldPathInvalid

	// Catalog errors
	CodeCatalogLoadFailed Code = i18n.CodeCatalogLoadFailed

	// Play errors
	CodeTechniqueUnknown        Code = i18n.CodeTechniqueUnknown
	CodeTechniqueInsufficientKi Code = i18n.CodeTechniqueInsufficientKi
	CodeResourceAmountInvalid   Code = i18n.CodeResourceAmountInvalid
	CodeCommandUnknown          Code = i18n.CodeCommandUnknown
	CodeCommandUsage            Code = i18n.CodeCommandUsage
)

// Exit codes returned by CLI entrypoints.
const (
	ExitInternal           = 1
	ExitInvalidArgument    = 2
	ExitFailedPrecondition = 3
	ExitNotFound           = 4
)

// ExitCode maps domain codes to process exit codes.
func (c Code) ExitCode() int {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSlotNameEmpty,
		CodeStateImportInvalid,
		CodeFieldPathInvalid,
		CodeResourceAmountInvalid,
		CodeCommandUnknown,
		CodeCommandUsage:
		return ExitInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeTechniqueInsufficientKi:
		return ExitFailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeSlotNotFound,
		CodeTechniqueUnknown:
		return ExitNotFound

	default:
		return ExitInternal
	}
}
