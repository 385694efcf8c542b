package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"finsight-backend/service"
	"finsight-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ragUploadExtensions mirrors the file types the RAG backend accepts.
var ragUploadExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".docx": true,
	".doc":  true,
}

// SessionHandler handles HTTP requests for interactive viewer and chat
// sessions
type SessionHandler struct {
	sessions        *session.Store
	analysisService *service.AnalysisService
	rag             session.RAGBackend
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Store, analysisService *service.AnalysisService, rag session.RAGBackend) *SessionHandler {
	return &SessionHandler{
		sessions:        sessions,
		analysisService: analysisService,
		rag:             rag,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var reqBody struct {
		AnalysisID *uuid.UUID `json:"analysis_id"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		// Body is optional; a bare session gets an empty viewer.
		reqBody.AnalysisID = nil
	}

	viewer := session.NewViewer(nil, nil, nil)
	if reqBody.AnalysisID != nil {
		result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{
			AnalysisID: *reqBody.AnalysisID,
		})
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Analysis not found",
				},
			})
			return
		}
		vm := result.ViewModel
		viewer = session.NewViewer(vm.Clauses, vm.Spans, vm.Residual)
	}

	chat := session.NewChatManager(h.rag)
	sess := h.sessions.Create(reqBody.AnalysisID, viewer, chat)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"session_id": sess.ID,
			"viewer":     sess.Viewer.State(),
			"messages":   sess.Chat.Messages(),
		},
	})
}

// session resolves the session from the path parameter, writing the error
// response itself when the session is missing.
func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid session ID format",
			},
		})
		return nil, false
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Session not found or expired",
			},
		})
		return nil, false
	}
	return sess, true
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session_id": sess.ID,
			"viewer":     sess.Viewer.State(),
			"messages":   sess.Chat.Messages(),
			"documents":  sess.Chat.Documents(),
		},
	})
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid session ID format",
			},
		})
		return
	}

	h.sessions.Remove(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetActiveClause handles POST /api/sessions/:id/viewer/active
func (h *SessionHandler) SetActiveClause(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var reqBody struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Body must contain an index",
			},
		})
		return
	}

	sess.Viewer.SetActive(reqBody.Index)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess.Viewer.State(),
	})
}

// Play handles POST /api/sessions/:id/viewer/play
func (h *SessionHandler) Play(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Viewer.Play()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess.Viewer.State(),
	})
}

// Pause handles POST /api/sessions/:id/viewer/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Viewer.Pause()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess.Viewer.State(),
	})
}

// SetSearch handles POST /api/sessions/:id/viewer/search
func (h *SessionHandler) SetSearch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var reqBody struct {
		Term string `json:"term"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Body must contain a term",
			},
		})
		return
	}

	sess.Viewer.SetSearch(reqBody.Term)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess.Viewer.State(),
	})
}

// SetFilter handles POST /api/sessions/:id/viewer/filter
func (h *SessionHandler) SetFilter(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var reqBody struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Body must contain a type",
			},
		})
		return
	}

	sess.Viewer.SetFilter(reqBody.Type)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess.Viewer.State(),
	})
}

// ChatQuery handles POST /api/sessions/:id/chat/query
func (h *SessionHandler) ChatQuery(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var reqBody struct {
		Question string `json:"question"`
		TopK     int    `json:"top_k"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Body must contain a question",
			},
		})
		return
	}

	reply, err := sess.Chat.SendQuery(c.Request.Context(), reqBody.Question, reqBody.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply":    reply,
			"messages": sess.Chat.Messages(),
		},
	})
}

// ChatUpload handles POST /api/sessions/:id/chat/upload
func (h *SessionHandler) ChatUpload(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !ragUploadExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": fmt.Sprintf("Unsupported file type: %s. Allowed: PDF, TXT, DOC, DOCX", ext),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	reply, err := sess.Chat.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply":     reply,
			"messages":  sess.Chat.Messages(),
			"documents": sess.Chat.Documents(),
		},
	})
}

// ChatHistory handles GET /api/sessions/:id/chat
func (h *SessionHandler) ChatHistory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"messages":  sess.Chat.Messages(),
			"documents": sess.Chat.Documents(),
			"can_query": sess.Chat.CanQuery(),
		},
	})
}

// ChatClear handles POST /api/sessions/:id/chat/clear
func (h *SessionHandler) ChatClear(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Chat.Clear()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"messages": sess.Chat.Messages(),
		},
	})
}
