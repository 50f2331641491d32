package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/verte-zerg/cryptomatch/internal/stats"
)

const (
	frameTitle          = "CRYPTO MATCH"
	frameCallToAction   = "Play Now & Beat This Score!"
	frameDefaultMode    = "Classic Mode"
	frameWidth          = 1200
	frameHeight         = 630
	frameAspectRatio    = "1.91:1"
	frameModeClassic    = "classic"
	frameModeSpeed      = "speed"
	frameMaxModeNameLen = 64
)

// FrameButton is one share frame button.
type FrameButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// Frame describes a shareable score card. Rendering the image is left to
// the client.
type Frame struct {
	Title        string        `json:"title"`
	Score        int           `json:"score"`
	Mode         string        `json:"mode"`
	CallToAction string        `json:"callToAction"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	AspectRatio  string        `json:"aspectRatio"`
	PostURL      string        `json:"postUrl"`
	Buttons      []FrameButton `json:"buttons"`
}

// FrameAction is the body posted when a frame button is pressed.
type FrameAction struct {
	ButtonIndex int `json:"buttonIndex"`
}

// FrameRedirect tells the frame host where to send the player.
type FrameRedirect struct {
	RedirectURL string `json:"redirectUrl"`
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	score := 0
	if raw := q.Get("score"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, stats.APIError{Error: "invalid score"})
			return
		}
		score = n
	}
	mode := strings.TrimSpace(q.Get("mode"))
	if mode == "" {
		mode = frameDefaultMode
	}
	if len(mode) > frameMaxModeNameLen {
		mode = mode[:frameMaxModeNameLen]
	}
	writeJSON(w, http.StatusOK, Frame{
		Title:        frameTitle,
		Score:        score,
		Mode:         mode,
		CallToAction: frameCallToAction,
		Width:        frameWidth,
		Height:       frameHeight,
		AspectRatio:  frameAspectRatio,
		PostURL:      s.baseURL + "/api/frame-action",
		Buttons: []FrameButton{
			{Label: "Play Classic", Action: "post"},
			{Label: "Play Speed", Action: "post"},
		},
	})
}

// handleFrameAction maps button 0 to classic play and any other to speed.
// An empty body counts as button 0.
func (s *Server) handleFrameAction(w http.ResponseWriter, r *http.Request) {
	var req FrameAction
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	mode := frameModeClassic
	if req.ButtonIndex != 0 {
		mode = frameModeSpeed
	}
	writeJSON(w, http.StatusOK, FrameRedirect{RedirectURL: s.playURL(mode)})
}
