package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
)

// AttachmentHandler issues presigned URLs for bill evidence
type AttachmentHandler struct {
	BaseHandler
	service *ledgerapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service *ledgerapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// DownloadURLQuery selects the attachment to download
type DownloadURLQuery struct {
	Key string `form:"key" binding:"required"`
}

// InitiateUpload godoc
// @ID           initiateAttachmentUpload
// @Summary      Get a presigned upload URL for bill evidence
// @Description  Validates type and size, then returns a PUT URL and the attachment to store on the transaction
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.UploadURLRequest true "File to upload"
// @Success      200 {object} APIResponse[ledgerapp.UploadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attachments/upload-url [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	var req ledgerapp.UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.InitiateUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DownloadURL godoc
// @ID           getAttachmentDownloadURL
// @Summary      Get a presigned download URL for bill evidence
// @Tags         attachments
// @Produce      json
// @Param        key query string true "Storage key"
// @Success      200 {object} APIResponse[ledgerapp.DownloadURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attachments/download-url [get]
func (h *AttachmentHandler) DownloadURL(c *gin.Context) {
	var query DownloadURLQuery
	if !h.BindQuery(c, &query) {
		return
	}
	resp, err := h.service.DownloadURL(c.Request.Context(), query.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
