package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gamehub/pokerroom/cmd/pokerroom/shared"
	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/game"
	"github.com/gamehub/pokerroom/internal/hub"
	"github.com/gamehub/pokerroom/internal/store"
)

// DemoCmd plays one hand between three scripted players and renders it, as a
// quick smoke test of the whole engine.
type DemoCmd struct {
	Seed  int64 `kong:"default='0',help='RNG seed, 0 picks one from the clock'"`
	Hands int   `kong:"default='1',help='Number of hands to play'"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	nameStyle   = lipgloss.NewStyle().Bold(true)
	potStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	redCard     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blackCard   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func (c *DemoCmd) Run() error {
	logger := shared.SetupLogger("warn")
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx := context.Background()
	h := hub.New(store.NewMemoryStore(), logger,
		hub.Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000},
		hub.WithSeed(seed))
	defer h.Close()

	room, err := h.CreateRoom(ctx, 0, 0)
	if err != nil {
		return err
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := h.Join(ctx, room.ID, game.PlayerID(name), name, 0); err != nil {
			return err
		}
	}

	for hand := 0; hand < c.Hands; hand++ {
		events, err := h.StartHand(ctx, room.ID)
		if err != nil {
			return err
		}
		renderEvents(events)

		// Everyone plays station poker: check when free, call otherwise.
		for {
			snap, err := h.Room(ctx, room.ID)
			if err != nil {
				return err
			}
			if snap.Status != game.StatusPlaying {
				break
			}
			actor := snap.CurrentActor()
			action := game.Check()
			if actor.Bet < snap.CurrentBet {
				action = game.Call()
			}
			events, err := h.Act(ctx, room.ID, actor.ID, action)
			if err != nil {
				return err
			}
			renderEvents(events)
		}
	}
	return nil
}

func renderEvents(events []game.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case game.HandStartedEvent:
			fmt.Println(headerStyle.Render(fmt.Sprintf("— hand %d —", e.HandNumber)))
			fmt.Printf("%s on the button, blinds %d/%d\n",
				nameStyle.Render(string(e.DealerID)), e.SmallBlind, e.BigBlind)

		case game.HoleCardsDealtEvent:
			fmt.Printf("%s draws %s\n",
				nameStyle.Render(string(e.PlayerID)), renderCards(e.Cards))

		case game.PlayerActedEvent:
			line := fmt.Sprintf("%s %ss", nameStyle.Render(string(e.PlayerID)), e.Action)
			if e.Paid > 0 {
				line += fmt.Sprintf(" %d", e.Paid)
			}
			if e.AllIn {
				line += dimStyle.Render(" (all-in)")
			}
			fmt.Printf("%s, pot %s\n", line, potStyle.Render(fmt.Sprint(e.Pot)))

		case game.StreetDealtEvent:
			fmt.Printf("%s: %s\n", headerStyle.Render(e.Round.String()), renderCards(e.Community))

		case game.PotAwardedEvent:
			winners := make([]string, 0, len(e.Winners))
			for _, w := range e.Winners {
				winners = append(winners, string(w))
			}
			desc := ""
			if e.Showdown {
				desc = dimStyle.Render(" with " + e.Category.String())
			}
			fmt.Printf("%s wins %s%s\n",
				nameStyle.Render(strings.Join(winners, ", ")),
				potStyle.Render(fmt.Sprint(e.Amount)), desc)

		case game.HandEndedEvent:
			for _, sd := range e.Showdowns {
				fmt.Printf("%s shows %s (%s)\n",
					nameStyle.Render(string(sd.PlayerID)),
					renderCards(sd.HoleCards), sd.Category)
			}
		}
	}
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		style := blackCard
		if c.Suit.IsRed() {
			style = redCard
		}
		parts = append(parts, style.Render(c.String()))
	}
	return strings.Join(parts, " ")
}
