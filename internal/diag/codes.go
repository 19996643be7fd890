package diag

// Stable diagnostic codes, grouped by phase.
const (
	// Declarations
	CodeDuplicateDeclaration   = "DUPLICATE_DECLARATION"
	CodeUndefinedSymbol        = "UNDEFINED_SYMBOL"
	CodeAssignToConst          = "ASSIGN_TO_CONST"
	CodeConstWithoutInit       = "CONST_WITHOUT_INITIALIZER"
	CodeMissingTypeOrInit      = "MISSING_TYPE_OR_INITIALIZER"

	// Types
	CodeUnknownType            = "UNKNOWN_TYPE"
	CodeTypeMismatch           = "TYPE_MISMATCH"
	CodeExpectedNumeric        = "EXPECTED_NUMERIC"
	CodeExpectedBoolOrNumeric  = "EXPECTED_BOOL_OR_NUMERIC"
	CodeEnumValueOutOfRange    = "ENUM_VALUE_OUT_OF_RANGE"
	CodeArgCountMismatch       = "ARG_COUNT_MISMATCH"
	CodeReturnTypeMismatch     = "RETURN_TYPE_MISMATCH"
	CodeReturnValueInVoid      = "RETURN_VALUE_IN_VOID"
	CodeReturnMissingValue     = "RETURN_MISSING_VALUE"

	// Control flow
	CodeBreakOutsideLoop    = "BREAK_OUTSIDE_LOOP"
	CodeContinueOutsideLoop = "CONTINUE_OUTSIDE_LOOP"
	CodeMissingReturn       = "MISSING_RETURN"
	CodeUnreachableCode     = "UNREACHABLE_CODE"

	// SFA / calls
	CodeRecursionDetected         = "RECURSION_DETECTED"
	CodeIndirectRecursionDetected = "INDIRECT_RECURSION_DETECTED"

	// Imports
	CodeImportUnresolved  = "IMPORT_UNRESOLVED"
	CodeImportNotExported = "IMPORT_NOT_EXPORTED"
	CodeCircularImport    = "CIRCULAR_IMPORT"

	// Member/index access: kept as distinct stable codes rather than
	// folding them into TYPE_MISMATCH.
	CodeUnknownMember = "UNKNOWN_MEMBER"
	CodeNotCallable   = "NOT_CALLABLE"
	CodeNotIndexable  = "NOT_INDEXABLE"

	// Advanced analysis (Pass 7, optional): findings are always warnings
	// and never affect Result.Succeeded.
	CodeUnusedVariable        = "UNUSED_VARIABLE"
	CodeUseBeforeAssignment   = "USE_BEFORE_ASSIGNMENT"
)
