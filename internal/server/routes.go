package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/az-ai-labs/ru-numtext/datetime"
	"github.com/az-ai-labs/ru-numtext/numtext"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type convertRequest struct {
	Text string `json:"text"`
}

type convertResponse struct {
	Text         string                `json:"text"`
	Replacements []numtext.Replacement `json:"replacements"`
}

type parseRequest struct {
	Words  []string `json:"words"`
	Phrase string   `json:"phrase"`
}

type parseResponse struct {
	Value int64 `json:"value"`
}

type wordResponse struct {
	Word     string `json:"word"`
	Numeral  bool   `json:"numeral"`
	Category string `json:"category"`
	Value    int64  `json:"value"`
}

type datesRequest struct {
	Text string `json:"text"`
	// Ref is the reference time for relative expressions (default: now)
	Ref *time.Time `json:"ref,omitempty"`
}

type datesResponse struct {
	Results []datetime.Result `json:"results"`
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	v1 := r.Group("/v1")
	v1.POST("/convert", s.handleConvert)
	v1.POST("/parse", s.handleParse)
	v1.GET("/words/:word", s.handleWord)
	v1.POST("/dates", s.handleDates)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"cached_phrases": s.converter.Load().CachedPhrases(),
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if !s.bind(c, &req) {
		return
	}

	text, reps := s.converter.Load().Rewrite(req.Text)
	if reps == nil {
		reps = []numtext.Replacement{}
	}
	c.JSON(http.StatusOK, convertResponse{
		Text:         text,
		Replacements: reps,
	})
}

func (s *Server) handleParse(c *gin.Context) {
	var req parseRequest
	if !s.bind(c, &req) {
		return
	}

	if req.Phrase != "" {
		v, ok := numtext.ParsePhrase(req.Phrase)
		if !ok {
			s.fail(c, http.StatusUnprocessableEntity, "phrase is not a numeral phrase")
			return
		}
		c.JSON(http.StatusOK, parseResponse{Value: v})
		return
	}

	v, err := numtext.ParseSequence(req.Words)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, numtext.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		s.fail(c, status, err.Error())
		return
	}
	c.JSON(http.StatusOK, parseResponse{Value: v})
}

func (s *Server) handleWord(c *gin.Context) {
	word := c.Param("word")
	cat, v := numtext.Classify(word)
	c.JSON(http.StatusOK, wordResponse{
		Word:     word,
		Numeral:  cat != numtext.NotNumeral,
		Category: cat.String(),
		Value:    v,
	})
}

func (s *Server) handleDates(c *gin.Context) {
	var req datesRequest
	if !s.bind(c, &req) {
		return
	}

	var ref time.Time
	if req.Ref != nil {
		ref = req.Ref.UTC()
	}
	results := datetime.Extract(req.Text, ref)
	if results == nil {
		results = []datetime.Result{}
	}
	c.JSON(http.StatusOK, datesResponse{Results: results})
}

// bind decodes the JSON body into dst, writing an error response on failure.
func (s *Server) bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.fail(c, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	s.fail(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
	return false
}

func (s *Server) fail(c *gin.Context, status int, msg string) {
	_ = c.Error(errors.New(msg))
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: getRequestID(c)})
}
