package handler

const (
	paramID       = "id"
	queryCategory = "category"
	queryLimit    = "limit"
	queryOffset   = "offset"

	defaultAssetListLimit  = 100
	defaultAssetListOffset = 0
	maxPaginationLimit     = 1000
	maxPaginationOffset    = 100000

	jsonKeyUploadURL = "uploadUrl"
	jsonKeyImageKey  = "imageKey"

	msgInvalidAssetID          = "invalid asset id"
	msgInvalidLimit            = "limit must be a positive integer"
	msgInvalidOffset           = "offset must be a non-negative integer"
	msgInvalidRequestBody      = "invalid request body"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgFileNameInvalid         = "fileName is required and cannot contain path separators"
	msgContentTypeInvalid      = "invalid content type"
	msgUploadURLGenerateFail   = "failed to generate upload URL"
)
