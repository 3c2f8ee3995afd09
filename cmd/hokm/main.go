package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"hokm/internal/app"
	"hokm/internal/domain"
	"hokm/internal/registry"
)

func main() {
	// Optional .env with HOKM_WINNING_SCORE / HOKM_SEED overrides.
	_ = godotenv.Load()

	winningScore := domain.DefaultWinningScore
	if v := os.Getenv("HOKM_WINNING_SCORE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			winningScore = i
		}
	}
	seed := time.Now().UnixNano()
	if v := os.Getenv("HOKM_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = i
		}
	}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hokm", pterm.FgRed.ToStyle()),
	).Render()
	pterm.Info.Println("Hot-seat table: four players share this terminal.")

	reg := registry.New()
	handle := reg.Create(winningScore)
	pterm.Info.Printfln("Table code: %s (first to %d points)", handle.ID, winningScore)

	svc := app.NewService(rand.New(rand.NewSource(seed)))

	names := make([]string, 0, domain.SeatCount)
	for i := 0; i < domain.SeatCount; i++ {
		prompt := fmt.Sprintf("Seat %d name", i)
		name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).WithDefaultValue(fmt.Sprintf("Player %d", i+1)).Show()
		names = append(names, name)

		if err := handle.Do(func(m *domain.Match) error {
			_, err := svc.AddPlayer(m, name)
			return err
		}); err != nil {
			pterm.Fatal.Printfln("Could not seat %s: %v", name, err)
		}
		if err := reg.LinkUser(name, handle.ID); err != nil {
			pterm.Fatal.Printfln("Could not link %s: %v", name, err)
		}
	}
	pterm.Success.Printfln("Teams: %s & %s vs %s & %s", names[0], names[2], names[1], names[3])

	if err := handle.Do(func(m *domain.Match) error {
		_, err := svc.StartMatch(m)
		return err
	}); err != nil {
		pterm.Fatal.Printfln("Could not start match: %v", err)
	}

	for {
		snap := handle.Snapshot()
		switch snap.Phase {
		case domain.PhaseChoosingTrump:
			chooseTrump(handle, svc, snap, names)
		case domain.PhasePlaying:
			playTurn(handle, svc, snap, names)
		case domain.PhaseRoundEnd:
			printScores(snap)
			pterm.Info.Println("Dealing the next round...")
			if err := handle.Do(func(m *domain.Match) error {
				_, err := svc.NextRound(m)
				return err
			}); err != nil {
				pterm.Fatal.Printfln("Could not continue: %v", err)
			}
		case domain.PhaseGameEnd:
			printScores(snap)
			a, b := teamNames(snap.WinningTeam, names)
			pterm.Success.Printfln("Match over. %s & %s win!", a, b)
			reg.Remove(handle.ID)
			return
		default:
			pterm.Fatal.Printfln("Unexpected phase: %s", snap.Phase)
		}
	}
}

func chooseTrump(handle *registry.Handle, svc *app.Service, snap domain.MatchSnapshot, names []string) {
	chooser := snap.TrumpChooser
	pterm.DefaultSection.Printfln("Round %d — %s chooses trump", snap.Round, names[chooser])
	showHand(snap.Players[chooser].Hand)

	options := make([]string, 0, len(domain.Suits))
	for _, s := range domain.Suits {
		options = append(options, suitLabel(s))
	}
	picked, _ := pterm.DefaultInteractiveSelect.WithOptions(options).WithDefaultText("Trump suit").Show()

	for i, label := range options {
		if label != picked {
			continue
		}
		suit := domain.Suits[i]
		if err := handle.Do(func(m *domain.Match) error {
			_, err := svc.ChooseTrump(m, chooser, suit)
			return err
		}); err != nil {
			pterm.Error.Printfln("Trump rejected: %v", err)
			return
		}
		pterm.Success.Printfln("Trump is %s. %s leads.", suitLabel(suit), names[chooser])
		return
	}
}

func playTurn(handle *registry.Handle, svc *app.Service, snap domain.MatchSnapshot, names []string) {
	seat := snap.Turn
	player := snap.Players[seat]

	pterm.DefaultSection.Printfln("%s to play (trump %s)", names[seat], suitLabel(snap.Trump))
	if snap.Trick != nil && len(snap.Trick.Cards) > 0 {
		for _, pc := range snap.Trick.Cards {
			pterm.Println("  " + names[pc.Seat] + ": " + renderCard(pc.Card))
		}
	}
	showHand(player.Hand)

	options := make([]string, 0, len(player.Hand))
	for _, c := range player.Hand {
		options = append(options, renderCard(c))
	}
	picked, _ := pterm.DefaultInteractiveSelect.WithOptions(options).WithDefaultText("Play a card").Show()

	for i, label := range options {
		if label != picked {
			continue
		}
		card := player.Hand[i]
		var events []app.Event
		if err := handle.Do(func(m *domain.Match) error {
			var err error
			events, err = svc.PlayCard(m, seat, card)
			return err
		}); err != nil {
			pterm.Error.Printfln("Play rejected: %v", err)
			return
		}
		for _, ev := range events {
			if ev.Kind == app.EventTrickWon {
				p := ev.Payload.(app.TrickWonPayload)
				pterm.Success.Printfln("%s takes the trick (%d this round).", names[p.WinnerSeat], p.TricksWon)
			}
		}
		return
	}
}

func showHand(hand []domain.Card) {
	grouped := domain.HandBySuit(hand)
	for _, s := range domain.Suits {
		cards, ok := grouped[s]
		if !ok {
			continue
		}
		line := suitLabel(s) + ": "
		for i, c := range cards {
			if i > 0 {
				line += " "
			}
			line += c.Rank.String()
		}
		pterm.Println("  " + line)
	}
}

func printScores(snap domain.MatchSnapshot) {
	rows := pterm.TableData{{"Team", "Score"}}
	for team, score := range snap.Scores {
		rows = append(rows, []string{fmt.Sprintf("Team %d", team), strconv.Itoa(score)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func teamNames(team int, names []string) (string, string) {
	if team == 0 {
		return names[0], names[2]
	}
	return names[1], names[3]
}

func suitLabel(s domain.Suit) string {
	if s == domain.SuitHearts || s == domain.SuitDiamonds {
		return pterm.Red(s.String())
	}
	return s.String()
}

func renderCard(c domain.Card) string {
	return c.Rank.String() + suitLabel(c.Suit)
}
