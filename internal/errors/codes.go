package errors

// Error code constants returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these codes to their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized  = "AUTH_UNAUTHORIZED"   // login required
	AuthTokenExpired  = "AUTH_TOKEN_EXPIRED"  // token expired
	AuthTokenInvalid  = "AUTH_TOKEN_INVALID"  // malformed or forged token
	AuthWrongPassword = "AUTH_WRONG_PASSWORD" // current password mismatch

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden  = "AUTHZ_FORBIDDEN"   // no access
	AuthzAuthorOnly = "AUTHZ_AUTHOR_ONLY" // only the recipe author may do this

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // itemized payload errors
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // malformed path id

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // generic not found
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // relation row already present
	ResourceDoesNotExist  = "RESOURCE_DOES_NOT_EXIST" // relation row absent on removal
	ResourceConflict      = "RESOURCE_CONFLICT"       // still referenced

	// ==================== Domain lookups ====================
	RecipeNotFound     = "RECIPE_NOT_FOUND"
	IngredientNotFound = "INGREDIENT_NOT_FOUND"
	TagNotFound        = "TAG_NOT_FOUND"
	UserNotFound       = "USER_NOT_FOUND"
	MediaNotFound      = "MEDIA_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
