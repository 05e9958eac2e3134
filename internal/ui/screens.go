package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/store"
)

// Screen identifies one management screen.
type Screen int

const (
	ScreenCategories Screen = iota
	ScreenMenu
	ScreenOrders
	ScreenUsers
	ScreenOffers
	ScreenMessages
)

var screenOrder = []Screen{
	ScreenCategories, ScreenMenu, ScreenOrders,
	ScreenUsers, ScreenOffers, ScreenMessages,
}

func (s Screen) String() string {
	switch s {
	case ScreenCategories:
		return "Categories"
	case ScreenMenu:
		return "Menu"
	case ScreenOrders:
		return "Orders"
	case ScreenUsers:
		return "Users"
	case ScreenOffers:
		return "Offers"
	case ScreenMessages:
		return "Messages"
	}
	return "Unknown"
}

func (s Screen) next() Screen {
	for i, sc := range screenOrder {
		if sc == s {
			return screenOrder[(i+1)%len(screenOrder)]
		}
	}
	return ScreenCategories
}

// collections holds one collection per screen. Only the active screen's is
// non-nil; each screen fetches its own copy on entry and discards it on
// exit.
type collections struct {
	categories *store.Collection[api.Category]
	menu       *store.Collection[api.MenuItem]
	orders     *store.Collection[api.Order]
	users      *store.Collection[api.User]
	offers     *store.Collection[api.Offer]
	messages   *store.Collection[api.ContactMessage]
}

func (c *collections) open(s Screen) {
	switch s {
	case ScreenCategories:
		c.categories = store.New[api.Category](api.CategoryOrder)
	case ScreenMenu:
		c.menu = store.New[api.MenuItem](api.MenuItemOrder)
	case ScreenOrders:
		c.orders = store.New[api.Order](api.OrderOrder)
	case ScreenUsers:
		c.users = store.New[api.User](api.UserOrder)
	case ScreenOffers:
		c.offers = store.New[api.Offer](api.OfferOrder)
	case ScreenMessages:
		c.messages = store.New[api.ContactMessage](api.MessageOrder)
	}
}

func (c *collections) close(s Screen) {
	switch s {
	case ScreenCategories:
		if c.categories != nil {
			c.categories.Close()
			c.categories = nil
		}
	case ScreenMenu:
		if c.menu != nil {
			c.menu.Close()
			c.menu = nil
		}
	case ScreenOrders:
		if c.orders != nil {
			c.orders.Close()
			c.orders = nil
		}
	case ScreenUsers:
		if c.users != nil {
			c.users.Close()
			c.users = nil
		}
	case ScreenOffers:
		if c.offers != nil {
			c.offers.Close()
			c.offers = nil
		}
	case ScreenMessages:
		if c.messages != nil {
			c.messages.Close()
			c.messages = nil
		}
	}
}

// fetchCmd returns a command that refreshes the given screen's collection.
func (m Model) fetchCmd(s Screen) tea.Cmd {
	client := m.client
	switch s {
	case ScreenCategories:
		coll, ctx := m.collections.categories, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.Category, error) {
				return client.FetchCategories(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	case ScreenMenu:
		coll, ctx := m.collections.menu, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.MenuItem, error) {
				return client.FetchMenuItems(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	case ScreenOrders:
		coll, ctx := m.collections.orders, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.Order, error) {
				return client.FetchOrders(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	case ScreenUsers:
		coll, ctx := m.collections.users, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.User, error) {
				return client.FetchUsers(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	case ScreenOffers:
		coll, ctx := m.collections.offers, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.Offer, error) {
				return client.FetchOffers(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	case ScreenMessages:
		coll, ctx := m.collections.messages, m.ctx
		return func() tea.Msg {
			err := coll.FetchAll(ctx, func(ctx context.Context) ([]api.ContactMessage, error) {
				return client.FetchMessages(ctx)
			})
			return fetchDoneMsg{screen: s, err: err}
		}
	}
	return nil
}

// screenView is one rendered page of the active screen: derived on every
// read from the collection plus the current filter and page state.
type screenView struct {
	Headers    []string
	Rows       [][]string
	IDs        []int64
	Total      int
	Page       int
	TotalPages int
}

func (m Model) currentView() screenView {
	page := store.Page{Number: m.page[m.screen], Size: m.pageSize}
	now := time.Now()

	switch m.screen {
	case ScreenCategories:
		view := store.DeriveView(m.collections.categories.Items(), func(c api.Category) bool {
			return store.MatchFold(m.query, c.Name)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "NAME", "ORDER", "IMAGE", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, c := range view.Items {
			sv.IDs = append(sv.IDs, c.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", c.ID),
				truncate(c.Name, 30),
				fmt.Sprintf("%d", c.DisplayOrder),
				yesNo(c.ImageURL != ""),
				ageLabel(c.CreatedAt, now),
			})
		}
		return sv

	case ScreenMenu:
		view := store.DeriveView(m.collections.menu.Items(), func(it api.MenuItem) bool {
			if m.menuFilter != 0 && it.CategoryID != m.menuFilter {
				return false
			}
			return store.MatchFold(m.query, it.Name, it.Description)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "NAME", "PRICE", "CAT", "AVAIL", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, it := range view.Items {
			sv.IDs = append(sv.IDs, it.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", it.ID),
				truncate(it.Name, 28),
				formatPrice(it.Price),
				fmt.Sprintf("%d", it.CategoryID),
				yesNo(it.Available),
				ageLabel(it.CreatedAt, now),
			})
		}
		return sv

	case ScreenOrders:
		view := store.DeriveView(m.collections.orders.Items(), func(o api.Order) bool {
			return store.MatchFold(m.query, o.CustomerName, o.Status, o.Phone)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "CUSTOMER", "ITEMS", "TOTAL", "STATUS", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, o := range view.Items {
			sv.IDs = append(sv.IDs, o.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", o.ID),
				truncate(o.CustomerName, 24),
				fmt.Sprintf("%d", len(o.Lines)),
				formatPrice(o.Total),
				o.Status,
				ageLabel(o.CreatedAt, now),
			})
		}
		return sv

	case ScreenUsers:
		view := store.DeriveView(m.collections.users.Items(), func(u api.User) bool {
			return store.MatchFold(m.query, u.Name, u.Email, u.Role)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "NAME", "EMAIL", "ROLE", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, u := range view.Items {
			sv.IDs = append(sv.IDs, u.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", u.ID),
				truncate(u.Name, 24),
				truncate(u.Email, 30),
				u.Role,
				ageLabel(u.CreatedAt, now),
			})
		}
		return sv

	case ScreenOffers:
		view := store.DeriveView(m.collections.offers.Items(), func(o api.Offer) bool {
			return store.MatchFold(m.query, o.Title, o.Description)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "TITLE", "OFF%", "ACTIVE", "IMAGE", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, o := range view.Items {
			sv.IDs = append(sv.IDs, o.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", o.ID),
				truncate(o.Title, 28),
				fmt.Sprintf("%.0f", o.DiscountPct),
				yesNo(o.Active),
				yesNo(o.Image != ""),
				ageLabel(o.CreatedAt, now),
			})
		}
		return sv

	case ScreenMessages:
		view := store.DeriveView(m.collections.messages.Items(), func(msg api.ContactMessage) bool {
			return store.MatchFold(m.query, msg.Name, msg.Email, msg.Subject, msg.Body)
		}, page)
		sv := screenView{
			Headers:    []string{"ID", "FROM", "EMAIL", "SUBJECT", "AGE"},
			Total:      view.Total,
			Page:       view.Page,
			TotalPages: view.TotalPages,
		}
		for _, msg := range view.Items {
			sv.IDs = append(sv.IDs, msg.ID)
			sv.Rows = append(sv.Rows, []string{
				fmt.Sprintf("%d", msg.ID),
				truncate(msg.Name, 20),
				truncate(msg.Email, 26),
				truncate(msg.Subject, 32),
				ageLabel(msg.CreatedAt, now),
			})
		}
		return sv
	}
	return screenView{Page: 1, TotalPages: 1}
}

// selectedID resolves the id of the highlighted row.
func (m Model) selectedID() (int64, bool) {
	view := m.currentView()
	idx := m.selected[m.screen]
	if idx < 0 || idx >= len(view.IDs) {
		return 0, false
	}
	return view.IDs[idx], true
}

// cycleMenuFilter steps the menu screen's category filter through the
// category ids present in the fetched items, then back to all.
func (m *Model) cycleMenuFilter() {
	items := m.collections.menu.Items()
	var ids []int64
	seen := map[int64]bool{}
	for _, it := range items {
		if !seen[it.CategoryID] {
			seen[it.CategoryID] = true
			ids = append(ids, it.CategoryID)
		}
	}
	if len(ids) == 0 {
		m.menuFilter = 0
		return
	}
	if m.menuFilter == 0 {
		m.menuFilter = ids[0]
		m.page[m.screen] = 1
		return
	}
	for i, id := range ids {
		if id == m.menuFilter {
			if i+1 < len(ids) {
				m.menuFilter = ids[i+1]
			} else {
				m.menuFilter = 0
			}
			m.page[m.screen] = 1
			return
		}
	}
	m.menuFilter = 0
}
