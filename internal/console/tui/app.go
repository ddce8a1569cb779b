package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"catalog_admin/internal/clients"
	"catalog_admin/internal/console"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const defaultToastTTL = 3 * time.Second

type screen int

const (
	screenProducts screen = iota
	screenCategories
	screenProductForm
	screenCategoryForm
)

// Deps are the coordinators the console drives.
type Deps struct {
	Products       *console.ProductListCoordinator
	Categories     *console.CategoryListCoordinator
	ProductForm    *console.ProductForm
	CategoryForm   *console.CategoryForm
	ProductDelete  *console.DeleteFlow
	CategoryDelete *console.DeleteFlow
	Log            *logrus.Logger
}

type productsLoadedMsg struct {
	seq  uint64
	view console.ProductView
	err  error
}

type categoriesLoadedMsg struct {
	err error
}

type formOpenedMsg struct {
	kind formKind
	err  error
}

type formSavedMsg struct {
	kind  formKind
	route string
	err   error
}

type deletedMsg struct {
	kind formKind
	err  error
}

type toastExpiredMsg struct {
	id int
}

type App struct {
	deps Deps
	keys keyMap

	screen     screen
	confirming bool
	confirm    ConfirmationDialog
	deleteKind formKind

	productTable  table.Model
	categoryTable table.Model
	search        textinput.Model
	searching     bool
	view          console.ProductView
	categories    []clients.Category
	loading       bool

	form formModel

	toast    toast
	toastTTL time.Duration

	width  int
	height int
}

func NewApp(deps Deps) App {
	productTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 30},
			{Title: "Price", Width: 16},
			{Title: "Category", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(console.ProductPageSize+1),
	)
	productTable.SetStyles(tableStyles())

	categoryTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	categoryTable.SetStyles(tableStyles())

	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = "🔍 "
	search.CharLimit = 80
	search.Width = 30

	app := App{
		deps:          deps,
		keys:          defaultKeyMap(),
		productTable:  productTable,
		categoryTable: categoryTable,
		search:        search,
		view:          deps.Products.View(),
		toastTTL:      defaultToastTTL,
	}
	app.setProductRows()
	app.setCategoryRows()
	return app
}

func (m App) Init() tea.Cmd {
	return m.loadProducts(m.deps.Products.State())
}

// loadProducts begins a sequenced load. Begin runs here, on the update loop,
// so sequence numbers follow the order of user actions.
func (m *App) loadProducts(state console.ListState) tea.Cmd {
	m.loading = true
	products := m.deps.Products
	seq := products.Begin(state)
	return func() tea.Msg {
		view, err := products.Fetch(context.Background(), seq, state)
		return productsLoadedMsg{seq: seq, view: view, err: err}
	}
}

func (m *App) loadCategories() tea.Cmd {
	m.loading = true
	categories := m.deps.Categories
	return func() tea.Msg {
		_, err := categories.Load(context.Background())
		return categoriesLoadedMsg{err: err}
	}
}

func (m *App) showToast(text string, isError bool) tea.Cmd {
	id := m.toast.id + 1
	m.toast = toast{id: id, text: text, isError: isError}
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *App) setProductRows() {
	if m.view.Empty() {
		m.productTable.SetRows([]table.Row{{"", "No products.", "", ""}})
		m.productTable.SetCursor(0)
		return
	}
	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		rows = append(rows, table.Row{r.Product.ID.String(), r.Product.Name, r.Price, r.Category})
	}
	m.productTable.SetRows(rows)
	if m.productTable.Cursor() >= len(rows) {
		m.productTable.SetCursor(len(rows) - 1)
	}
}

func (m *App) setCategoryRows() {
	m.categories = m.deps.Categories.Categories()
	if len(m.categories) == 0 {
		m.categoryTable.SetRows([]table.Row{{"", "No categories."}})
		m.categoryTable.SetCursor(0)
		return
	}
	rows := make([]table.Row, 0, len(m.categories))
	for _, c := range m.categories {
		rows = append(rows, table.Row{c.ID.String(), c.Name})
	}
	m.categoryTable.SetRows(rows)
	if m.categoryTable.Cursor() >= len(rows) {
		m.categoryTable.SetCursor(len(rows) - 1)
	}
}

func (m App) selectedProduct() (clients.Product, bool) {
	i := m.productTable.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return clients.Product{}, false
	}
	return m.view.Rows[i].Product, true
}

func (m App) selectedCategory() (clients.Category, bool) {
	i := m.categoryTable.Cursor()
	if i < 0 || i >= len(m.categories) {
		return clients.Category{}, false
	}
	return m.categories[i], true
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 10; h > 3 {
			m.categoryTable.SetHeight(h)
		}
		return m, nil

	case productsLoadedMsg:
		if errors.Is(msg.err, console.ErrStaleResponse) {
			m.deps.Log.Debugf("Console: Ignoring failed superseded load (seq %d)", msg.seq)
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			return m, nil
		}
		view, err := m.deps.Products.Apply(msg.view)
		if errors.Is(err, console.ErrStaleResponse) {
			m.deps.Log.Debugf("Console: Ignoring stale product page (seq %d)", msg.seq)
			return m, nil
		}
		m.loading = false
		m.view = view
		m.setProductRows()
		return m, nil

	case categoriesLoadedMsg:
		m.loading = false
		m.setCategoryRows()
		return m, nil

	case toastMsg:
		return m, m.showToast(msg.text, msg.isError)

	case toastExpiredMsg:
		if msg.id == m.toast.id {
			m.toast = toast{id: m.toast.id}
		}
		return m, nil

	case formOpenedMsg:
		return m.formOpened(msg)

	case formSavedMsg:
		return m.formSaved(msg)

	case deletedMsg:
		m.confirm.Busy = false
		if msg.err != nil {
			m.deps.Log.Debugf("Console: Delete failed, keeping the dialog open: %v", msg.err)
			return m, nil
		}
		m.confirming = false
		if msg.kind == productFormKind {
			m.view = m.deps.Products.View()
			m.setProductRows()
		} else {
			m.setCategoryRows()
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		switch m.screen {
		case screenProducts:
			return m.updateProducts(msg)
		case screenCategories:
			return m.updateCategories(msg)
		case screenProductForm, screenCategoryForm:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	flow := m.deps.ProductDelete
	if m.deleteKind == categoryFormKind {
		flow = m.deps.CategoryDelete
	}
	switch m.confirm.Update(msg) {
	case confirmAccepted:
		m.confirm.Busy = true
		kind := m.deleteKind
		return m, func() tea.Msg {
			return deletedMsg{kind: kind, err: flow.Confirm(context.Background())}
		}
	case confirmDeclined:
		flow.Cancel()
		m.confirming = false
	}
	return m, nil
}

func (m *App) startDelete(kind formKind, target console.DeleteTarget) {
	flow := m.deps.ProductDelete
	if kind == categoryFormKind {
		flow = m.deps.CategoryDelete
	}
	flow.Stage(target)
	m.deleteKind = kind
	m.confirm = NewConfirmationDialog("Confirm delete", flow.Prompt())
	m.confirming = true
}

func (m App) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			m.productTable.Focus()
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return m, tea.Batch(cmd, m.loadProducts(m.deps.Products.State().WithSearch(m.search.Value())))
		}
		return m, cmd
	}

	state := m.deps.Products.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Switch):
		m.screen = screenCategories
		return m, m.loadCategories()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.productTable.Blur()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Sort):
		return m, m.loadProducts(state.ToggleSort())
	case key.Matches(msg, m.keys.PrevPage):
		if state.Page <= 1 {
			return m, nil
		}
		return m, m.loadProducts(state.WithPage(state.Page - 1))
	case key.Matches(msg, m.keys.NextPage):
		if state.Page >= m.view.TotalPages {
			return m, nil
		}
		return m, m.loadProducts(state.WithPage(state.Page + 1))
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadProducts(state)
	case key.Matches(msg, m.keys.Add):
		return m.openForm(productFormKind, "")
	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.selectedProduct(); ok {
			return m.openForm(productFormKind, p.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedProduct(); ok {
			m.startDelete(productFormKind, console.DeleteTarget{ID: p.ID, Name: p.Name})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.productTable, cmd = m.productTable.Update(msg)
	return m, cmd
}

func (m App) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Switch):
		m.screen = screenProducts
		return m, m.loadProducts(m.deps.Products.State())
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadCategories()
	case key.Matches(msg, m.keys.Add):
		return m.openForm(categoryFormKind, "")
	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.selectedCategory(); ok {
			return m.openForm(categoryFormKind, c.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.selectedCategory(); ok {
			m.startDelete(categoryFormKind, console.DeleteTarget{ID: c.ID, Name: c.Name})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.categoryTable, cmd = m.categoryTable.Update(msg)
	return m, cmd
}

func (m App) View() string {
	var body string
	switch m.screen {
	case screenProducts:
		body = m.productsView()
	case screenCategories:
		body = m.categoriesView()
	default:
		body = m.form.View() + "\n" + helpLine(m.keys.NextField, m.keys.Submit, m.keys.Back)
	}

	if m.confirming {
		body = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	parts := []string{m.tabsView(), body}
	if t := m.toast.View(); t != "" {
		parts = append(parts, t)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m App) tabsView() string {
	products := inactiveTabStyle.Render("Products")
	categories := inactiveTabStyle.Render("Categories")
	switch m.screen {
	case screenProducts, screenProductForm:
		products = activeTabStyle.Render("Products")
	default:
		categories = activeTabStyle.Render("Categories")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, products, " ", categories) + "\n"
}

func (m App) productsView() string {
	var b strings.Builder
	state := m.deps.Products.State()

	header := titleStyle.Render("Products")
	sort := "price ↑"
	if state.SortOrder == console.SortDesc {
		sort = "price ↓"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header, "   ", m.search.View(), "   ", mutedStyle.Render(sort)))
	b.WriteString("\n")
	b.WriteString(m.productTable.View())
	b.WriteString("\n")

	if m.view.TotalPages > 1 {
		pages := make([]string, 0, m.view.TotalPages)
		for p := 1; p <= m.view.TotalPages; p++ {
			label := strconv.Itoa(p)
			if p == m.view.State.Page {
				pages = append(pages, currentPageStyle.Render(label))
			} else {
				pages = append(pages, otherPageStyle.Render(label))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, pages...))
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	}

	b.WriteString(helpLine(m.keys.Search, m.keys.Sort, m.keys.PrevPage, m.keys.NextPage,
		m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Switch, m.keys.Quit))
	return b.String()
}

func (m App) categoriesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n")
	b.WriteString(m.categoryTable.View())
	b.WriteString("\n")
	if m.loading {
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	b.WriteString(helpLine(m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Reload, m.keys.Switch, m.keys.Quit))
	return b.String()
}
