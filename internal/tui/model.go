// Package tui is the interactive terminal frontend: tabbed pages over the
// portfolio, services, dashboard, and admin surfaces, plus the login,
// signup, and password reset forms.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/auth"
	"github.com/DekunleJr/Signatures/internal/config"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/model"
	"github.com/DekunleJr/Signatures/internal/session"
	"github.com/DekunleJr/Signatures/internal/view"
)

// Page is the visible screen
type Page int

const (
	PagePortfolio Page = iota
	PageServices
	PageDashboard
	PageAdmin
	PageLogin
	PageSignup
	PageReset
	PageHelp
)

// Mode distinguishes normal browsing from modal input
type Mode int

const (
	ModeNormal Mode = iota
	ModeOrder
)

// Model is the main TUI model
type Model struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client

	// Listing state
	works     *view.WorkListing
	users     *view.UserListing
	services  []model.Service
	servTotal int
	dashboard *model.Dashboard

	// Auth flows
	login  *auth.PasswordLogin
	signup *auth.Signup
	reset  *auth.PasswordReset

	// forcedLogout is signalled by the client's unauthorized hook; the
	// update loop turns it into a redirect to the login page.
	forcedLogout chan struct{}

	// UI state
	width   int
	height  int
	page    Page
	mode    Mode
	cursor  int
	loading bool
	message string

	// Form state
	inputs []textinput.Model
	focus  int
}

// NewModel creates the TUI model and wires the client's unauthorized hook
// to a login redirect.
func NewModel(cfg *config.Config, sess *session.Session) Model {
	logger.Info("Initializing TUI model")

	m := Model{
		cfg:          cfg,
		session:      sess,
		forcedLogout: make(chan struct{}, 1), // Buffered to avoid blocking
	}

	m.client = api.New(cfg.APIURL, sess, func() {
		logger.Debug("Forced logout signalled to TUI")
		// Non-blocking send; the update loop picks it up.
		select {
		case m.forcedLogout <- struct{}{}:
		default:
		}
	})

	m.works = view.NewWorkListing(m.client, sess, cfg.PageSize)
	m.users = view.NewUserListing(m.client, sess, cfg.PageSize)
	m.login = auth.NewPasswordLogin(m.client, sess)
	m.signup = auth.NewSignup(m.client, sess)
	m.reset = auth.NewPasswordReset(m.client, sess)

	m.page = PagePortfolio
	m.loading = true

	logger.Debug("TUI model initialized", logger.F("logged_in", sess.LoggedIn()))
	return m
}

// newInput builds one form field.
func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
	}
	return ti
}

// setForm replaces the active form fields and focuses the first.
func (m *Model) setForm(inputs ...textinput.Model) {
	m.inputs = inputs
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// focusField moves focus to the field at index i.
func (m *Model) focusField(i int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) formValue(i int) string {
	if i < len(m.inputs) {
		return m.inputs[i].Value()
	}
	return ""
}

// visibleWorks returns the current portfolio page's items.
func (m Model) visibleWorks() []model.Work {
	return m.works.Items()
}

func (m Model) currentWork() *model.Work {
	works := m.visibleWorks()
	if m.cursor < len(works) {
		return &works[m.cursor]
	}
	return nil
}

func (m Model) currentUser() *model.User {
	users := m.users.Items()
	if m.cursor < len(users) {
		return &users[m.cursor]
	}
	return nil
}
