package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	printingapp "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/application/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/middleware"
)

// PrintHandler handles print-related API endpoints
type PrintHandler struct {
	BaseHandler
	printService *printingapp.PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *printingapp.PrintService) *PrintHandler {
	return &PrintHandler{
		printService: printService,
	}
}

const pdfContentType = "application/pdf"

// bindDocumentRequest decodes the JSON body. Field rules are checked by the
// service so that payload errors carry their full path.
func (h *PrintHandler) bindDocumentRequest(c *gin.Context) (printingapp.DocumentRequest, bool) {
	var req printingapp.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		} else {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON: "+err.Error())
		}
		return req, false
	}
	return req, true
}

// writePDF sends PDF bytes with a download or inline disposition
func writePDF(c *gin.Context, data []byte, filename string, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, pdfContentType, data)
}

// =============================================================================
// Preview and PDF Generation Endpoints
// =============================================================================

// PreviewPDF godoc
//
//	@ID				previewPrintDocument
//
//	@Summary		Preview a document
//	@Description	Render a receipt, program or progress report and return the PDF without storing it
//	@Tags			print-preview
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body		printingapp.DocumentRequest	true	"Document request"
//	@Success		200		{file}		binary
//	@Header			200		{int}		X-Page-Count		"Number of pages"
//	@Header			200		{int}		X-Skipped-Images	"Images replaced by placeholders"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Failure		500		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/preview [post]
func (h *PrintHandler) PreviewPDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	req, ok := h.bindDocumentRequest(c)
	if !ok {
		return
	}

	result, err := h.printService.PreviewPDF(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("X-Page-Count", strconv.Itoa(result.PageCount))
	c.Header("X-Skipped-Images", strconv.Itoa(len(result.SkippedImages)))
	c.Header("X-Render-Time-Ms", strconv.FormatInt(result.RenderTimeMs, 10))
	writePDF(c, result.PDFData, result.Filename, true)
}

// GeneratePDF godoc
//
//	@ID				generatePrintJob
//
//	@Summary		Generate PDF
//	@Description	Render a document, store the PDF and record a print job.
//	@Description	Retries carrying the same Idempotency-Key return the original job with 200.
//	@Tags			print-jobs
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string						false	"Client retry key"
//	@Param			request			body		printingapp.DocumentRequest	true	"Document request"
//	@Success		201				{object}	dto.Response{data=printingapp.PrintJobResponse}
//	@Success		200				{object}	dto.Response{data=printingapp.PrintJobResponse}
//	@Failure		400				{object}	dto.Response
//	@Failure		401				{object}	dto.Response
//	@Failure		409				{object}	dto.Response
//	@Failure		422				{object}	dto.Response
//	@Failure		500				{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/generate [post]
func (h *PrintHandler) GeneratePDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	req, ok := h.bindDocumentRequest(c)
	if !ok {
		return
	}

	result, err := h.printService.GeneratePDF(c.Request.Context(), tenantID, userID,
		middleware.GetIdempotencyKey(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// =============================================================================
// Print Job Endpoints
// =============================================================================

// GetJob godoc
//
//	@ID				getPrintJob
//
//	@Summary		Get print job by ID
//	@Tags			print-jobs
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"	format(uuid)
//	@Success		200	{object}	dto.Response{data=printingapp.PrintJobResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/jobs/{id} [get]
func (h *PrintHandler) GetJob(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.printService.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListJobs godoc
//
//	@ID				listPrintJobs
//
//	@Summary		List print jobs
//	@Tags			print-jobs
//	@Produce		json
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)
//	@Param			order_by	query		string	false	"Order by field"	default(created_at)
//	@Param			order_dir	query		string	false	"Order direction"	Enums(asc, desc)
//	@Param			search		query		string	false	"Document number contains"
//	@Param			doc_type	query		string	false	"Filter by document type"
//	@Param			status		query		string	false	"Filter by status"
//	@Param			paper_size	query		string	false	"Filter by paper size"
//	@Success		200			{object}	dto.Response{data=[]printingapp.PrintJobResponse}
//	@Failure		400			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/jobs [get]
func (h *PrintHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	var req printingapp.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.printService.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJobsByDocument godoc
//
//	@ID				getPrintJobsByDocument
//
//	@Summary		Get jobs by document
//	@Description	Every print job recorded for one receipt number or program name
//	@Tags			print-jobs
//	@Produce		json
//	@Param			doc_type		path		string	true	"Document type"
//	@Param			document_number	path		string	true	"Document reference"
//	@Success		200				{object}	dto.Response{data=[]printingapp.PrintJobResponse}
//	@Failure		400				{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/jobs/by-document/{doc_type}/{document_number} [get]
func (h *PrintHandler) GetJobsByDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	result, err := h.printService.GetJobsByDocument(c.Request.Context(), tenantID,
		strings.ToUpper(c.Param("doc_type")), c.Param("document_number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DownloadPDF godoc
//
//	@ID				downloadPrintJobPDF
//
//	@Summary		Download PDF
//	@Description	Stream the stored PDF of a completed job. With redirect=1 and object storage the
//	@Description	response is a 302 to a presigned link instead.
//	@Tags			print-jobs
//	@Produce		application/pdf
//	@Param			id			path		string	true	"Job ID"	format(uuid)
//	@Param			redirect	query		bool	false	"Prefer a presigned redirect"
//	@Success		200			{file}		binary
//	@Success		302
//	@Failure		400			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/jobs/{id}/download [get]
func (h *PrintHandler) DownloadPDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	preferRedirect, _ := strconv.ParseBool(c.DefaultQuery("redirect", "false"))

	result, err := h.printService.DownloadPDF(c.Request.Context(), tenantID, jobID, preferRedirect)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.RedirectURL != "" {
		c.Header("Cache-Control", "private, no-store")
		c.Redirect(http.StatusFound, result.RedirectURL)
		return
	}
	writePDF(c, result.Data, result.Filename, false)
}

// ServeFile godoc
//
//	@ID				getPrintFile
//
//	@Summary		Fetch a stored PDF by path
//	@Description	Resolves the pdf_url handed out for filesystem storage. Only the caller's tenant is visible.
//	@Tags			print-jobs
//	@Produce		application/pdf
//	@Param			filepath	path		string	true	"Storage path"
//	@Success		200			{file}		binary
//	@Failure		404			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/print/files/{filepath} [get]
func (h *PrintHandler) ServeFile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not found")
		return
	}

	path := c.Param("filepath")
	data, err := h.printService.OpenStoredFile(c.Request.Context(), tenantID, path)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	name := path[strings.LastIndex(path, "/")+1:]
	writePDF(c, data, name, true)
}

// =============================================================================
// Reference Data Endpoints
// =============================================================================

// GetDocumentTypes godoc
//
//	@ID				listPrintDocumentTypes
//
//	@Summary		List document types
//	@Tags			print-reference
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]printingapp.DocumentTypeResponse}
//	@Security		BearerAuth
//	@Router			/print/document-types [get]
func (h *PrintHandler) GetDocumentTypes(c *gin.Context) {
	h.Success(c, h.printService.GetDocumentTypes())
}

// GetPaperSizes godoc
//
//	@ID				listPrintPaperSizes
//
//	@Summary		List paper sizes
//	@Tags			print-reference
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]printingapp.PaperSizeResponse}
//	@Security		BearerAuth
//	@Router			/print/paper-sizes [get]
func (h *PrintHandler) GetPaperSizes(c *gin.Context) {
	h.Success(c, h.printService.GetPaperSizes())
}
