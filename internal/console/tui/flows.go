package tui

import (
	"context"
	"errors"
	"strings"

	"catalog_admin/internal/clients"
	"catalog_admin/internal/console"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m App) openForm(kind formKind, id clients.ID) (tea.Model, tea.Cmd) {
	m.form = loadingForm(kind)
	if kind == productFormKind {
		m.screen = screenProductForm
		form := m.deps.ProductForm
		return m, func() tea.Msg {
			return formOpenedMsg{kind: kind, err: form.Open(context.Background(), id)}
		}
	}
	m.screen = screenCategoryForm
	form := m.deps.CategoryForm
	return m, func() tea.Msg {
		return formOpenedMsg{kind: kind, err: form.Open(context.Background(), id)}
	}
}

func (m App) formOpened(msg formOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.kind == productFormKind {
		if m.screen != screenProductForm {
			return m, nil
		}
		f := m.deps.ProductForm
		m.form = newProductFormModel(f.Mode(), f.Draft(), f.Categories())
	} else {
		if m.screen != screenCategoryForm {
			return m, nil
		}
		f := m.deps.CategoryForm
		m.form = newCategoryFormModel(f.Mode(), f.Draft())
	}
	if msg.err != nil {
		return m, m.showToast("Could not load the record.", true)
	}
	return m, nil
}

func (m App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.loading || m.form.saving {
		if key.Matches(msg, m.keys.Back) {
			return m.leaveForm()
		}
		return m, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.leaveForm()
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.moveFocus(-1)
	}
	return m, m.form.update(msg)
}

func (m App) leaveForm() (tea.Model, tea.Cmd) {
	if m.form.kind == productFormKind {
		m.screen = screenProducts
		return m, m.loadProducts(m.deps.Products.State())
	}
	m.screen = screenCategories
	return m, m.loadCategories()
}

func (m App) submitForm() (tea.Model, tea.Cmd) {
	m.form.saving = true
	kind := m.form.kind
	if kind == productFormKind {
		form := m.deps.ProductForm
		form.SetDraft(m.form.productDraft())
		return m, func() tea.Msg {
			route, err := form.Submit(context.Background())
			return formSavedMsg{kind: kind, route: route, err: err}
		}
	}
	form := m.deps.CategoryForm
	form.SetDraft(m.form.categoryDraft())
	return m, func() tea.Msg {
		route, err := form.Submit(context.Background())
		return formSavedMsg{kind: kind, route: route, err: err}
	}
}

func (m App) formSaved(msg formSavedMsg) (tea.Model, tea.Cmd) {
	m.form.saving = false
	noun := "Product"
	if msg.kind == categoryFormKind {
		noun = "Category"
	}

	if msg.err != nil {
		var invalid *console.ValidationError
		if errors.As(msg.err, &invalid) {
			return m, m.showToast(invalid.Error(), true)
		}
		return m, m.showToast("Could not save "+strings.ToLower(noun)+".", true)
	}

	toastCmd := m.showToast(noun+" saved", false)
	switch msg.route {
	case console.RouteCategories:
		m.screen = screenCategories
		return m, tea.Batch(toastCmd, m.loadCategories())
	default:
		m.screen = screenProducts
		return m, tea.Batch(toastCmd, m.loadProducts(m.deps.Products.State()))
	}
}
