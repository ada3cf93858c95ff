package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Logging is a plain access logger. It fits server.ServerOpts.Logger, which
// calls it after each response has been written.
func Logging(req *request.Request, res *response.Response, elapsed time.Duration) {
	log.Printf("%s %s %d in %s [%s]\n", req.Method, req.Target, res.StatusCode(), elapsed, req.ID)
}

var methodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Background(lipgloss.Color("12")).Width(8).Align(lipgloss.Center)

// LoggingColored is Logging with the method and status styled for a terminal.
func LoggingColored(req *request.Request, res *response.Response, elapsed time.Duration) {
	statusCode := int(res.StatusCode())
	styledStatus := statusCodeStyle(statusCode).Render(fmt.Sprintf("%d", statusCode))
	styledMethod := methodStyle.Render(req.Method)

	log.Printf("%s %s %s in %s [%s]\n", styledMethod, req.Target, styledStatus, elapsed, req.ID)
}

func statusCodeStyle(statusCode int) lipgloss.Style {
	switch {
	case statusCode >= 200 && statusCode < 300:
		// green
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	case statusCode >= 300 && statusCode < 400:
		// yellow
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	case statusCode >= 400 && statusCode < 500:
		// orange
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	case statusCode >= 500:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	}
}
