package tui

import (
	"strings"

	"catalog_admin/internal/clients"
	"catalog_admin/internal/console"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	productFormKind formKind = iota
	categoryFormKind
)

const (
	fieldName = iota
	fieldDescription
	fieldPrice
	fieldImage
)

// formModel renders the product or category form. For products the category
// selector is the last field, after the text inputs.
type formModel struct {
	kind        formKind
	mode        console.FormMode
	inputs      []textinput.Model
	categories  []clients.Category
	categoryIdx int
	focus       int
	loading     bool
	saving      bool
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	return ti
}

func loadingForm(kind formKind) formModel {
	return formModel{kind: kind, loading: true, categoryIdx: -1}
}

func newProductFormModel(mode console.FormMode, draft console.ProductDraft, categories []clients.Category) formModel {
	inputs := []textinput.Model{
		newInput("Product name", 120),
		newInput("Description", 500),
		newInput("Price", 20),
		newInput("Image URL", 500),
	}
	inputs[fieldName].SetValue(draft.Name)
	inputs[fieldDescription].SetValue(draft.Description)
	inputs[fieldPrice].SetValue(draft.Price)
	inputs[fieldImage].SetValue(draft.Image)

	f := formModel{
		kind:        productFormKind,
		mode:        mode,
		inputs:      inputs,
		categories:  categories,
		categoryIdx: -1,
	}
	for i, c := range categories {
		if c.ID == draft.CategoryID {
			f.categoryIdx = i
			break
		}
	}
	f.inputs[0].Focus()
	return f
}

func newCategoryFormModel(mode console.FormMode, draft console.CategoryDraft) formModel {
	name := newInput("Category name", 120)
	name.SetValue(draft.Name)
	name.Focus()
	return formModel{
		kind:        categoryFormKind,
		mode:        mode,
		inputs:      []textinput.Model{name},
		categoryIdx: -1,
	}
}

func (f *formModel) fieldCount() int {
	if f.kind == productFormKind {
		return len(f.inputs) + 1
	}
	return len(f.inputs)
}

func (f *formModel) onCategoryField() bool {
	return f.kind == productFormKind && f.focus == len(f.inputs)
}

func (f *formModel) moveFocus(delta int) tea.Cmd {
	n := f.fieldCount()
	f.focus = ((f.focus+delta)%n + n) % n
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *formModel) cycleCategory(delta int) {
	if len(f.categories) == 0 {
		return
	}
	n := len(f.categories)
	if f.categoryIdx < 0 {
		if delta > 0 {
			f.categoryIdx = 0
		} else {
			f.categoryIdx = n - 1
		}
		return
	}
	f.categoryIdx = ((f.categoryIdx+delta)%n + n) % n
}

func (f *formModel) update(msg tea.Msg) tea.Cmd {
	if f.onCategoryField() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "left", "h":
				f.cycleCategory(-1)
			case "right", "l", " ":
				f.cycleCategory(1)
			}
		}
		return nil
	}
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f formModel) productDraft() console.ProductDraft {
	draft := console.ProductDraft{
		Name:        f.inputs[fieldName].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Price:       f.inputs[fieldPrice].Value(),
		Image:       f.inputs[fieldImage].Value(),
	}
	if f.categoryIdx >= 0 && f.categoryIdx < len(f.categories) {
		draft.CategoryID = f.categories[f.categoryIdx].ID
	}
	return draft
}

func (f formModel) categoryDraft() console.CategoryDraft {
	return console.CategoryDraft{Name: f.inputs[0].Value()}
}

func (f formModel) title() string {
	noun := "Product"
	if f.kind == categoryFormKind {
		noun = "Category"
	}
	if f.mode == console.ModeEdit {
		return "Edit " + noun
	}
	return "Add " + noun
}

func (f formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title()))
	b.WriteString("\n")

	if f.loading {
		b.WriteString(mutedStyle.Render("Loading..."))
		return boxStyle.Render(b.String())
	}

	labels := []string{"Name", "Description", "Price", "Image URL"}
	if f.kind == categoryFormKind {
		labels = []string{"Name"}
	}
	for i, input := range f.inputs {
		label := labelStyle.Render(labels[i])
		if i == f.focus {
			label = focusedLabelStyle.Render(labels[i])
		}
		b.WriteString(label + input.View() + "\n")
	}

	if f.kind == productFormKind {
		label := labelStyle.Render("Category")
		if f.onCategoryField() {
			label = focusedLabelStyle.Render("Category")
		}
		choice := mutedStyle.Render("Select a category")
		if f.categoryIdx >= 0 && f.categoryIdx < len(f.categories) {
			choice = "‹ " + f.categories[f.categoryIdx].Name + " ›"
		}
		b.WriteString(label + choice + "\n")
	}

	if f.saving {
		b.WriteString("\n" + mutedStyle.Render("Saving..."))
	}
	return boxStyle.Render(b.String())
}
