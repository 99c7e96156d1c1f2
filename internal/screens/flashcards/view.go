package flashcards

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/flashcard"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

func (s *FlashcardsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.session == nil {
		body := s.picker.View() + "\n" + theme.Hint.Render("Cards are drawn at random. You won't see a repeat this visit.")
		return components.Centered(components.TitledPanel("Pick a topic", body, cw), width, height)
	}

	card, ok := s.session.Card()
	var sections []string
	switch {
	case !ok && s.session.Err() != "":
		sections = append(sections, components.ErrorBox(s.session.Err(), "Press r to retry or t to pick another topic.", cw))
	case !ok:
		sections = append(sections, components.Panel(s.spinner.View()+" "+theme.Body.Render("Shuffling the deck..."), cw))
	default:
		sections = append(sections, s.renderCard(card, cw))
		if s.session.Err() != "" {
			sections = append(sections, components.ErrorBox(s.session.Err(), "Press Enter to try the next card again.", cw))
		}
	}
	return components.Centered(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

func (s *FlashcardsScreen) renderCard(card api.Card, cw int) string {
	inner := cw - 6

	meta := theme.Hint.Render(fmt.Sprintf("%s · %s · card %d",
		card.Category, card.DifficultyOrDefault(), len(s.session.Seen())))
	if s.session.Loading() {
		meta += "  " + s.spinner.View()
	}

	question := lipgloss.NewStyle().
		Width(inner).
		Foreground(theme.Text).
		Bold(true).
		Render(card.Question)

	parts := []string{meta, "", question, ""}

	if card.HasOptions() {
		reveal := components.NoReveal
		if s.session.Answered() {
			reveal = components.Reveal{
				Shown:   true,
				Chosen:  slices.Index(card.Options, s.session.Selected()),
				Correct: slices.Index(card.Options, card.CorrectAnswer),
			}
		}
		parts = append(parts, s.options.View(reveal))
		if s.session.Answered() {
			parts = append(parts, verdict(s.session.Correct()))
		}
		return components.Panel(strings.Join(parts, "\n"), cw)
	}

	if s.session.Phase() == flashcard.PhaseShowingAnswer {
		answer := lipgloss.NewStyle().
			Width(inner).
			Foreground(theme.Primary).
			Render(card.CorrectAnswer)
		parts = append(parts, theme.Label.Render("Answer"), answer, "")
		if s.session.Answered() {
			parts = append(parts, verdict(s.session.Correct()))
		} else {
			parts = append(parts, theme.Hint.Render("Did you know it? y / n"))
		}
	} else {
		parts = append(parts, theme.Hint.Render("Think it through, then press Space to flip."))
	}
	return components.Panel(strings.Join(parts, "\n"), cw)
}

func verdict(correct bool) string {
	if correct {
		return theme.Correct.Render("Nice! +XP on its way.")
	}
	return theme.Incorrect.Render("Keep at it. It'll stick next time.")
}
