// Package response renders the flash-style JSON bodies shared by every handler.
package response

import (
	"github.com/gin-gonic/gin"
)

type Status string

const (
	Success Status = "success"
	Failure Status = "failure"
)

// Flash is the user-visible outcome of an action.
type Flash struct {
	Status     Status
	ResultText string
	Messages   map[string][]string
}

func Ok(text string) Flash {
	return Flash{Status: Success, ResultText: text}
}

func Fail(text string, messages map[string][]string) Flash {
	return Flash{Status: Failure, ResultText: text, Messages: messages}
}

func (f Flash) body(extra gin.H) gin.H {
	h := gin.H{
		"status":      f.Status,
		"result_text": f.ResultText,
	}
	if len(f.Messages) > 0 {
		h["messages"] = f.Messages
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

// Redirect answers with code, a Location header and the flash. The body
// also carries redirect_to for clients that do not follow Location, plus
// any extra payload keys.
func Redirect(c *gin.Context, code int, location string, f Flash, extra gin.H) {
	body := f.body(extra)
	body["redirect_to"] = location
	c.Header("Location", location)
	c.JSON(code, body)
}

// AbortRedirect is Redirect for filters; nothing after the current handler runs.
func AbortRedirect(c *gin.Context, code int, location string, f Flash) {
	c.Header("Location", location)
	c.AbortWithStatusJSON(code, f.body(gin.H{"redirect_to": location}))
}

// Render answers with code, the flash and any extra payload keys.
func Render(c *gin.Context, code int, f Flash, extra gin.H) {
	c.JSON(code, f.body(extra))
}

// Error writes a plain error body, as used for infrastructure failures.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
