package tui

import (
	"context"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/rememberbook/internal/db"
	"github.com/Joseda-hg/rememberbook/internal/model"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewActive   = "active"
	viewArchived = "archived"
	viewNotes    = "notes"
)

type UI struct {
	store *db.Store
	gui   *gocui.Gui

	active   []model.Idea
	archived []model.Idea

	selectedActive   int
	selectedArchived int
	focus            string
	status           string
}

func Run(store *db.Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		store: store,
		gui:   gui,
		focus: viewActive,
	}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadIdeas(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleArchived); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteIdea); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.focusActive); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.focusArchived); err != nil {
		return err
	}
	for _, name := range []string{viewActive, viewArchived} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := maxY - 2
	if footerY1 < 1 {
		footerY1 = 1
	}
	footerY0 := footerY1 - 1
	if footerY0 < 1 {
		footerY0 = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	leftWidth := maxX / 2
	if leftWidth < 24 {
		leftWidth = max(maxX-2, 24) / 2
	}
	leftX1 := leftWidth - 1
	rightX0 := leftWidth + 1
	if rightX0 >= maxX {
		rightX0 = leftX1
	}
	rightX1 := maxX - 1

	bodyHeight := bodyBottom - bodyTop + 1
	archivedHeight := bodyHeight * 2 / 5
	if archivedHeight < 3 {
		archivedHeight = 3
	}
	archivedY1 := bodyTop + archivedHeight - 1
	notesY0 := archivedY1 + 1

	activeView, err := gui.SetView(viewActive, 0, bodyTop, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		activeView.Title = "1 Ideas"
		activeView.TitleColor = gocui.ColorRed
	}
	applyViewStyle(activeView, u.focus == viewActive, true)
	u.renderIdeaList(activeView, u.active, u.selectedActive, u.focus == viewActive)

	archivedView, err := gui.SetView(viewArchived, rightX0, bodyTop, rightX1, archivedY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		archivedView.Title = "2 Archived"
	}
	applyViewStyle(archivedView, u.focus == viewArchived, true)
	u.renderIdeaList(archivedView, u.archived, u.selectedArchived, u.focus == viewArchived)

	notesView, err := gui.SetView(viewNotes, rightX0, notesY0, rightX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		notesView.Title = "Notes"
	}
	applyViewStyle(notesView, false, false)
	u.renderNotes(notesView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	return nil
}

func (u *UI) loadIdeas() error {
	ideas, err := u.store.ListIdeas(context.Background())
	if err != nil {
		return err
	}

	u.active = model.FilterActiveOnly.Apply(ideas)
	u.archived = model.FilterArchivedOnly.Apply(ideas)

	if u.selectedActive >= len(u.active) {
		u.selectedActive = max(len(u.active)-1, 0)
	}
	if u.selectedArchived >= len(u.archived) {
		u.selectedArchived = max(len(u.archived)-1, 0)
	}

	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	fmt.Fprintf(view, "Remember Book | %d active | %d archived", len(u.active), len(u.archived))
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprint(view, "j/k move | x archive/restore | d delete | tab/1/2 panes | r reload | q quit")
	if u.status != "" {
		fmt.Fprintf(view, " | %s", u.status)
	}
}

func (u *UI) renderIdeaList(view *gocui.View, ideas []model.Idea, selected int, focused bool) {
	view.Clear()
	for i, idea := range ideas {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatIdeaSummary(idea))
	}
	if focused && len(ideas) > 0 {
		view.SetCursor(0, min(selected, len(ideas)-1))
	}
}

func (u *UI) renderNotes(view *gocui.View) {
	view.Clear()
	selected := u.selectedIdea()
	if selected == nil {
		fmt.Fprint(view, "no idea selected")
		return
	}

	fmt.Fprintln(view, selected.Description)
	if len(selected.Notes) == 0 {
		fmt.Fprint(view, "(no notes)")
		return
	}
	for _, note := range selected.Notes {
		fmt.Fprintf(view, "- %s\n", formatNoteLine(note))
	}
}

func (u *UI) selectedIdea() *model.Idea {
	switch u.focus {
	case viewArchived:
		if u.selectedArchived >= 0 && u.selectedArchived < len(u.archived) {
			return &u.archived[u.selectedArchived]
		}
	default:
		if u.selectedActive >= 0 && u.selectedActive < len(u.active) {
			return &u.active[u.selectedActive]
		}
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.focus == viewActive {
		u.focus = viewArchived
	} else {
		u.focus = viewActive
	}
	_, _ = gui.SetCurrentView(u.focus)
	return u.reload(gui, nil)
}

func (u *UI) focusActive(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewActive)
}

func (u *UI) focusArchived(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewArchived)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	u.focus = name
	_, _ = gui.SetCurrentView(name)
	return u.reload(gui, nil)
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	switch u.focus {
	case viewArchived:
		if u.selectedArchived < len(u.archived)-1 {
			u.selectedArchived++
		}
	default:
		if u.selectedActive < len(u.active)-1 {
			u.selectedActive++
		}
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	switch u.focus {
	case viewArchived:
		if u.selectedArchived > 0 {
			u.selectedArchived--
		}
	default:
		if u.selectedActive > 0 {
			u.selectedActive--
		}
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	u.status = ""
	return u.loadIdeas()
}

func (u *UI) toggleArchived(gui *gocui.Gui, _ *gocui.View) error {
	selected := u.selectedIdea()
	if selected == nil {
		return nil
	}

	flag := model.Flag(!selected.Archived)
	if _, err := u.store.UpdateIdea(context.Background(), selected.ID, model.IdeaPatch{Archived: &flag}); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.loadIdeas()
}

func (u *UI) deleteIdea(gui *gocui.Gui, _ *gocui.View) error {
	selected := u.selectedIdea()
	if selected == nil {
		return nil
	}
	if _, err := u.store.DeleteIdea(context.Background(), selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.loadIdeas()
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
