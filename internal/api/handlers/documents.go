package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// DocumentsHandler handles document-related HTTP requests.
type DocumentsHandler struct {
	service *service.LinkService
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(svc *service.LinkService) *DocumentsHandler {
	return &DocumentsHandler{service: svc}
}

// List handles GET /api/documents - returns the full collection.
func (h *DocumentsHandler) List(c *gin.Context) {
	docs, err := h.service.ListDocuments()
	if err != nil {
		WriteError(c, err)
		return
	}

	response := dto.DocumentListResponse{
		Documents:  make([]dto.DocumentResponse, 0, len(docs)),
		TotalCount: len(docs),
	}
	for _, doc := range docs {
		response.Documents = append(response.Documents, dto.ToDocumentResponse(doc))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/documents/:id - returns a single document.
func (h *DocumentsHandler) Get(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(*doc))
}

// Create handles POST /api/documents - stores a new document.
func (h *DocumentsHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	doc, err := documentFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	created, err := h.service.AddDocument(doc)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(*created))
}

// Duplicates handles GET /api/documents/:id/duplicates - ranked candidates.
func (h *DocumentsHandler) Duplicates(c *gin.Context) {
	id := c.Param("id")
	threshold := ParseIntQuery(c, "threshold", 0)

	candidates, err := h.service.DuplicatesFor(id, threshold)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DuplicateListResponse{
		TargetID:   id,
		Candidates: dto.ToDuplicateResponses(candidates),
	})
}

// PaymentMatch handles GET /api/documents/:id/payment-match - pairs a
// payment receipt with its itemized receipt. A missing match is a
// normal empty state, not an error.
func (h *DocumentsHandler) PaymentMatch(c *gin.Context) {
	match, err := h.service.MatchPayment(c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	if match == nil {
		c.JSON(http.StatusOK, gin.H{"match": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": dto.ToDocumentResponse(*match)})
}

// documentFromRequest normalizes an API payload into a domain document.
func documentFromRequest(req dto.CreateDocumentRequest) (document.Document, error) {
	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			return document.Document{}, err
		}
		date = parsed
	}

	doc := document.Document{
		Kind:              document.Kind(req.Kind),
		Amount:            req.Amount,
		Date:              date,
		Vendor:            req.Vendor,
		TransactionNumber: req.TransactionNumber,
		OrderNumber:       req.OrderNumber,
		HasAttachment:     req.HasAttachment,
	}

	if doc.Kind == document.KindReceipt {
		doc.Filename = req.Filename
		doc.DocumentType = document.Type(req.DocumentType)
		// A receipt upload is its own documentation.
		doc.HasAttachment = true
	}

	return doc, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
