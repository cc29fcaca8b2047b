package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DekunleJr/Signatures/internal/auth"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/model"
)

// tickMsg is sent every second for time updates
type tickMsg time.Time

// forcedLogoutMsg is sent when the API client hit a 401 and cleared the
// session behind our back.
type forcedLogoutMsg struct{}

type worksLoadedMsg struct{ err error }

type servicesLoadedMsg struct {
	page model.ServicePage
	err  error
}

type dashboardLoadedMsg struct {
	dash model.Dashboard
	err  error
}

type usersLoadedMsg struct{ err error }

type loginResultMsg struct{ err error }

type signupResultMsg struct{ err error }

type resetResultMsg struct{ err error }

type likeToggledMsg struct{ err error }

type orderPlacedMsg struct{ err error }

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForForcedLogout(), m.fetchWorks())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForForcedLogout listens for the unauthorized hook's signal.
func (m Model) waitForForcedLogout() tea.Cmd {
	if m.forcedLogout == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.forcedLogout
		return forcedLogoutMsg{}
	}
}

func (m Model) fetchWorks() tea.Cmd {
	works := m.works
	return func() tea.Msg {
		return worksLoadedMsg{err: works.Fetch(context.Background())}
	}
}

func (m Model) fetchServices() tea.Cmd {
	client := m.client
	size := m.cfg.PageSize
	return func() tea.Msg {
		page, err := client.Services(context.Background(), 0, size)
		return servicesLoadedMsg{page: page, err: err}
	}
}

func (m Model) fetchDashboard() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		dash, err := client.DashboardData(context.Background())
		return dashboardLoadedMsg{dash: dash, err: err}
	}
}

func (m Model) fetchUsers() tea.Cmd {
	users := m.users
	return func() tea.Msg {
		return usersLoadedMsg{err: users.Fetch(context.Background())}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()

	case forcedLogoutMsg:
		logger.Info("Session invalidated by server, redirecting to login")
		m.startLogin()
		m.message = "Your session expired. Please log in again."
		return m, tea.Batch(m.waitForForcedLogout(), textinput.Blink)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case worksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = "Could not load the portfolio: " + msg.err.Error()
		} else if m.cursor >= len(m.works.Items()) {
			m.cursor = 0
		}
		return m, nil

	case servicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = "Could not load services: " + msg.err.Error()
		} else {
			m.services = msg.page.Items
			m.servTotal = msg.page.TotalCount
			if m.cursor >= len(m.services) {
				m.cursor = 0
			}
		}
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = "Could not load the dashboard: " + msg.err.Error()
		} else {
			dash := msg.dash
			m.dashboard = &dash
		}
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = "Could not load users: " + msg.err.Error()
		} else if m.cursor >= len(m.users.Items()) {
			m.cursor = 0
		}
		return m, nil

	case loginResultMsg:
		m.loading = false
		m.message = m.login.Message()
		if m.login.State() == auth.LoginSuccess {
			m.page = PagePortfolio
			m.cursor = 0
			m.loading = true
			return m, m.fetchWorks()
		}
		return m, nil

	case signupResultMsg:
		m.loading = false
		m.message = m.signup.Message()
		if m.signup.State() == auth.SignupPendingVerification {
			email := m.formValue(0)
			m.startLogin()
			if len(m.inputs) > 0 {
				m.inputs[0].SetValue(email)
			}
			m.message = m.signup.Message()
			return m, textinput.Blink
		}
		return m, nil

	case resetResultMsg:
		m.loading = false
		m.message = m.reset.Message()
		switch m.reset.Phase() {
		case auth.ResetOTPSent:
			m.setForm(
				newInput("One-time code", false),
				newInput("New password", true),
				newInput("Confirm password", true),
			)
			return m, textinput.Blink
		case auth.ResetSuccess:
			m.startLogin()
			m.message = m.reset.Message()
			return m, textinput.Blink
		}
		return m, nil

	case likeToggledMsg:
		// The listing already flipped the flag and reported any failure
		// through the notifier. Nothing to do either way.
		return m, nil

	case orderPlacedMsg:
		if msg.err != nil {
			m.message = "Order failed: " + msg.err.Error()
		} else {
			m.message = "Order sent! The studio will reach out by email."
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeOrder {
			return m.updateOrderInput(msg)
		}
		switch m.page {
		case PageLogin, PageSignup, PageReset:
			return m.updateForm(msg)
		case PageHelp:
			m.page = PagePortfolio
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses on the browsing pages
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Portfolio):
		m.page = PagePortfolio
		m.cursor = 0
		m.loading = true
		return m, m.fetchWorks()

	case key.Matches(msg, keys.Services):
		m.page = PageServices
		m.cursor = 0
		m.loading = true
		return m, m.fetchServices()

	case key.Matches(msg, keys.Dashboard):
		if !m.session.LoggedIn() {
			m.startLogin()
			m.message = "Log in to see your dashboard."
			return m, textinput.Blink
		}
		m.page = PageDashboard
		m.cursor = 0
		m.loading = true
		return m, m.fetchDashboard()

	case key.Matches(msg, keys.Admin):
		if !m.session.IsAdmin() {
			m.message = "Admin access required."
			return m, nil
		}
		m.page = PageAdmin
		m.cursor = 0
		m.loading = true
		return m, m.fetchUsers()

	case key.Matches(msg, keys.Login):
		if m.session.LoggedIn() {
			m.message = "Already logged in as " + m.session.User().Email
			return m, nil
		}
		m.startLogin()
		return m, textinput.Blink

	case key.Matches(msg, keys.Signup):
		if m.session.LoggedIn() {
			return m, nil
		}
		m.startSignup()
		return m, textinput.Blink

	case key.Matches(msg, keys.Logout):
		m.handleLogout()
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.NextPage):
		return m.changePage(1)

	case key.Matches(msg, keys.PrevPage):
		return m.changePage(-1)

	case key.Matches(msg, keys.Like):
		return m.handleLike()

	case key.Matches(msg, keys.Order):
		return m.startOrder()

	case key.Matches(msg, keys.Block):
		return m.handleBlock()

	case key.Matches(msg, keys.Refresh):
		return m.refreshCurrent()

	case key.Matches(msg, keys.Help):
		m.page = PageHelp
		return m, nil
	}

	return m, nil
}

// itemCount is the cursor bound for the current page.
func (m Model) itemCount() int {
	switch m.page {
	case PagePortfolio:
		return len(m.works.Items())
	case PageServices:
		return len(m.services)
	case PageDashboard:
		if m.dashboard != nil {
			return len(m.dashboard.LikedWorks)
		}
	case PageAdmin:
		return len(m.users.Items())
	}
	return 0
}

func (m Model) changePage(delta int) (tea.Model, tea.Cmd) {
	switch m.page {
	case PagePortfolio:
		if m.works.SetPage(m.works.Page() + delta) {
			m.cursor = 0
			m.loading = true
			return m, m.fetchWorks()
		}
	case PageAdmin:
		if m.users.SetPage(m.users.Page() + delta) {
			m.cursor = 0
			m.loading = true
			return m, m.fetchUsers()
		}
	}
	return m, nil
}

func (m Model) refreshCurrent() (tea.Model, tea.Cmd) {
	m.loading = true
	switch m.page {
	case PagePortfolio:
		return m, m.fetchWorks()
	case PageServices:
		return m, m.fetchServices()
	case PageDashboard:
		return m, m.fetchDashboard()
	case PageAdmin:
		return m, m.fetchUsers()
	}
	m.loading = false
	return m, nil
}

func (m Model) handleLike() (tea.Model, tea.Cmd) {
	if m.page != PagePortfolio {
		return m, nil
	}
	work := m.currentWork()
	if work == nil {
		return m, nil
	}
	if !m.session.LoggedIn() {
		m.startLogin()
		m.message = "Log in to like works."
		return m, textinput.Blink
	}
	works := m.works
	id := work.ID
	return m, func() tea.Msg {
		return likeToggledMsg{err: works.ToggleLike(context.Background(), id)}
	}
}

func (m Model) startOrder() (tea.Model, tea.Cmd) {
	if m.page != PagePortfolio || m.currentWork() == nil {
		return m, nil
	}
	if !m.session.LoggedIn() {
		m.startLogin()
		m.message = "Log in to place an order."
		return m, textinput.Blink
	}
	m.mode = ModeOrder
	m.setForm(newInput("Tell us about your request...", false))
	return m, textinput.Blink
}

func (m Model) updateOrderInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.inputs = nil
		return m, nil

	case msg.Type == tea.KeyEnter:
		work := m.currentWork()
		message := m.formValue(0)
		m.mode = ModeNormal
		m.inputs = nil
		if work == nil {
			return m, nil
		}
		client := m.client
		id := work.ID
		return m, func() tea.Msg {
			return orderPlacedMsg{err: client.OrderWork(context.Background(), id, message)}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleBlock() (tea.Model, tea.Cmd) {
	if m.page != PageAdmin {
		return m, nil
	}
	user := m.currentUser()
	if user == nil {
		return m, nil
	}
	client := m.client
	users := m.users
	id := user.ID
	m.loading = true
	return m, func() tea.Msg {
		if _, err := client.BlockUnblockUser(context.Background(), id); err != nil {
			return usersLoadedMsg{err: err}
		}
		return usersLoadedMsg{err: users.Fetch(context.Background())}
	}
}

func (m *Model) handleLogout() {
	if !m.session.LoggedIn() {
		m.message = "Not logged in"
		return
	}
	m.session.Logout()
	m.dashboard = nil
	m.message = "Logged out"
}

// startLogin switches to the login form.
func (m *Model) startLogin() {
	m.page = PageLogin
	m.mode = ModeNormal
	m.message = ""
	m.setForm(
		newInput("Email", false),
		newInput("Password", true),
	)
}

func (m *Model) startSignup() {
	m.page = PageSignup
	m.mode = ModeNormal
	m.message = ""
	m.setForm(
		newInput("Email", false),
		newInput("First name", false),
		newInput("Last name", false),
		newInput("Phone number", false),
		newInput("Password", true),
		newInput("Confirm password", true),
	)
}

func (m *Model) startReset() {
	m.page = PageReset
	m.mode = ModeNormal
	m.message = ""
	m.setForm(newInput("Email", false))
}

// updateForm drives the login, signup, and reset forms.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		m.page = PagePortfolio
		m.mode = ModeNormal
		m.inputs = nil
		m.message = ""
		return m, nil

	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		m.focusField(m.focus + 1)
		return m, textinput.Blink

	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		m.focusField(m.focus - 1)
		return m, textinput.Blink

	case msg.Type == tea.KeyCtrlR && m.page == PageLogin:
		m.startReset()
		return m, textinput.Blink

	case msg.Type == tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.focusField(m.focus + 1)
			return m, textinput.Blink
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.page {
	case PageLogin:
		email := m.formValue(0)
		password := m.formValue(1)
		if email == "" || password == "" {
			m.message = "Email and password are required."
			return m, nil
		}
		m.loading = true
		m.message = "Logging in..."
		flow := m.login
		return m, func() tea.Msg {
			return loginResultMsg{err: flow.Submit(context.Background(), email, password)}
		}

	case PageSignup:
		in := auth.SignupInput{
			Email:           m.formValue(0),
			FirstName:       m.formValue(1),
			LastName:        m.formValue(2),
			PhoneNumber:     m.formValue(3),
			Password:        m.formValue(4),
			ConfirmPassword: m.formValue(5),
		}
		if err := auth.Validate(in); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.loading = true
		m.message = "Creating account..."
		flow := m.signup
		return m, func() tea.Msg {
			return signupResultMsg{err: flow.Submit(context.Background(), in)}
		}

	case PageReset:
		flow := m.reset
		if flow.Phase() == auth.ResetOTPSent {
			otp := m.formValue(0)
			newPassword := m.formValue(1)
			confirm := m.formValue(2)
			m.loading = true
			return m, func() tea.Msg {
				return resetResultMsg{err: flow.Submit(context.Background(), otp, newPassword, confirm)}
			}
		}
		email := m.formValue(0)
		if email == "" {
			m.message = "Enter the account's email address."
			return m, nil
		}
		m.loading = true
		m.message = "Requesting a reset code..."
		return m, func() tea.Msg {
			return resetResultMsg{err: flow.RequestOTP(context.Background(), email)}
		}
	}

	return m, nil
}
