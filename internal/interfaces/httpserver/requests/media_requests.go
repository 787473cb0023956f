package requests

// ImageUploadField is the multipart field carrying the image.
const ImageUploadField = "image"

// EntityImagePath binds /v1/{animals|exhibits}/:id/image.
type EntityImagePath struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// DeleteImageQuery binds DELETE /v1/images?url=.
type DeleteImageQuery struct {
	URL string `form:"url" binding:"required"`
}

// ListReplacementsQuery binds GET /v1/image-replacements.
type ListReplacementsQuery struct {
	State string `form:"state" binding:"omitempty,oneof=uploading persisted old_cleaned_up old_orphaned failed"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
