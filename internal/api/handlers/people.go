package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/catalog/internal/api/ws"
	"github.com/your-org/catalog/internal/models"
	"github.com/your-org/catalog/internal/people"
	"github.com/your-org/catalog/internal/queue"
	"github.com/your-org/catalog/internal/storage"
	"github.com/your-org/catalog/pkg/dto"
)

// PeopleHandler serves the catalog CRUD surface. The archive, producer and
// hub are optional; nil disables originals, the change feed and live events.
type PeopleHandler struct {
	coord    *people.Coordinator
	archive  *storage.ArchiveStore
	producer *queue.Producer
	hub      *ws.Hub
}

func NewPeopleHandler(coord *people.Coordinator, archive *storage.ArchiveStore, producer *queue.Producer, hub *ws.Hub) *PeopleHandler {
	return &PeopleHandler{coord: coord, archive: archive, producer: producer, hub: hub}
}

func toPersonResponse(p models.Person) dto.PersonResponse {
	t := people.ForTransport(p)
	return dto.PersonResponse{
		ID:             t.ID,
		RegistrationID: people.RegistrationID(t.ID),
		Name:           t.Name,
		Mother:         t.Mother,
		Father:         t.Father,
		CPF:            t.CPF,
		RG:             t.RG,
		Address:        t.Address,
		History:        t.History,
		DOB:            t.DOB,
		Phone:          t.Phone,
		Email:          t.Email,
		Photos:         t.Photos,
		PhotoCount:     len(t.Photos),
	}
}

func (h *PeopleHandler) List(c *gin.Context) {
	var records []models.Person
	switch {
	case c.Query("cpf") != "":
		found, err := h.coord.FindWhere(c.Request.Context(), "CPF", c.Query("cpf"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		records = found
	case c.Query("q") != "":
		records = h.coord.Repo().Search(c.Query("q"))
	default:
		records = h.coord.Repo().All()
	}

	resp := make([]dto.PersonResponse, 0, len(records))
	for _, p := range records {
		resp = append(resp, toPersonResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"people": resp, "total": len(resp)})
}

func (h *PeopleHandler) Get(c *gin.Context) {
	p, ok := h.coord.Repo().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, toPersonResponse(p))
}

// Where queries by an exact field match, hitting the selected store directly.
func (h *PeopleHandler) Where(c *gin.Context) {
	field := c.Query("field")
	value := c.Query("value")
	if field == "" || value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and value are required"})
		return
	}

	records, err := h.coord.FindWhere(c.Request.Context(), field, value)
	if err != nil {
		if storage.IsUnknownField(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.PersonResponse, 0, len(records))
	for _, p := range records {
		resp = append(resp, toPersonResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"people": resp, "total": len(resp)})
}

func (h *PeopleHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h *PeopleHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *PeopleHandler) save(c *gin.Context, id string) {
	var req dto.SavePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	p := models.Person{
		Name:    req.Name,
		Mother:  req.Mother,
		Father:  req.Father,
		CPF:     req.CPF,
		RG:      req.RG,
		Address: req.Address,
		History: req.History,
		DOB:     req.DOB,
		Phone:   req.Phone,
		Email:   req.Email,
		Photos:  req.Photos,
	}
	if p.Photos == nil {
		p.Photos = []models.Photo{}
	}

	result, err := h.coord.Save(c.Request.Context(), p, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	action := queue.ActionUpdated
	status := http.StatusOK
	if id == "" {
		action = queue.ActionCreated
		status = http.StatusCreated
	}

	resp := dto.SaveResponse{
		Person:   toPersonResponse(result.Person),
		Fallback: result.Fallback,
	}

	if h.producer != nil {
		if err := h.producer.PublishChange(c.Request.Context(), action, resp.Person); err != nil {
			// The save already succeeded; the feed is best effort.
			c.Error(err)
		}
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(&dto.WSEvent{Type: dto.EventPersonSaved, Data: resp.Person})
	}

	c.JSON(status, resp)
}

func (h *PeopleHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	fallback, err := h.coord.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if h.archive != nil {
		if err := h.archive.DeletePerson(c.Request.Context(), id); err != nil {
			c.Error(err)
		}
	}
	if h.producer != nil {
		if err := h.producer.PublishChange(c.Request.Context(), queue.ActionDeleted, gin.H{"id": id}); err != nil {
			c.Error(err)
		}
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(&dto.WSEvent{Type: dto.EventPersonDeleted, Data: gin.H{"id": id}})
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Status: "deleted", Fallback: fallback})
}

// Original streams the archived uncompressed photo. Available only when the
// archive is configured.
func (h *PeopleHandler) Original(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive not configured"})
		return
	}

	key := storage.PhotoKey(c.Param("id"), c.Param("photoId"))
	data, err := h.archive.GetPhoto(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "original not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
