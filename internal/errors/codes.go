package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients branch on the code; the message is for people.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed form or body
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Venue (VENUE_) ====================
	VenueNotFound     = "VENUE_NOT_FOUND"
	VenueCreateFailed = "VENUE_CREATE_FAILED"
	VenueUpdateFailed = "VENUE_UPDATE_FAILED"
	VenueDeleteFailed = "VENUE_DELETE_FAILED"

	// ==================== Artist (ARTIST_) ====================
	ArtistNotFound     = "ARTIST_NOT_FOUND"
	ArtistCreateFailed = "ARTIST_CREATE_FAILED"
	ArtistUpdateFailed = "ARTIST_UPDATE_FAILED"

	// ==================== Show (SHOW_) ====================
	ShowCreateFailed  = "SHOW_CREATE_FAILED"
	ShowInvalidVenue  = "SHOW_INVALID_VENUE"  // venue reference does not exist
	ShowInvalidArtist = "SHOW_INVALID_ARTIST" // artist reference does not exist
	ShowExportFailed  = "SHOW_EXPORT_FAILED"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadInvalidFolder   = "UPLOAD_INVALID_FOLDER"
	UploadFailed          = "UPLOAD_FAILED"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE" // object storage not configured

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
)
