package shell

import (
	"fmt"
	"strings"
)

func (s *Shell) printVault() {
	snap := s.store.Snapshot()

	fmt.Fprintln(s.out, s.st.title.Render(fmt.Sprintf("Credentials (%d)", len(snap.Credentials))))
	if len(snap.Credentials) == 0 {
		fmt.Fprintln(s.out, s.st.muted.Render("  none"))
	}
	for _, c := range snap.Credentials {
		line := []string{c.Username, c.Password}
		if c.URL != "" {
			line = append(line, c.URL)
		}
		fmt.Fprintf(s.out, "  %s  %s  %s\n", s.st.id.Render("["+c.ID.String()+"]"), c.Title, strings.Join(line, " • "))
		if c.Notes != "" {
			fmt.Fprintln(s.out, "      "+s.st.muted.Render(c.Notes))
		}
	}

	fmt.Fprintln(s.out, s.st.title.Render(fmt.Sprintf("Seed phrases (%d)", len(snap.Seeds))))
	if len(snap.Seeds) == 0 {
		fmt.Fprintln(s.out, s.st.muted.Render("  none"))
	}
	for _, p := range snap.Seeds {
		fmt.Fprintf(s.out, "  %s  %s: %s\n", s.st.id.Render("["+p.ID.String()+"]"), p.Label, p.SeedPhrase)
	}
}

func (s *Shell) printBreach() {
	res, ok := s.breach.Result()
	switch {
	case !ok:
		fmt.Fprintln(s.out, s.st.muted.Render("No result."))
	case res.Breached:
		fmt.Fprintln(s.out, s.st.breached.Render(fmt.Sprintf("Found %d breaches", res.Count)))
	default:
		fmt.Fprintln(s.out, s.st.safe.Render("No breach found in database"))
	}
}

func (s *Shell) printSuggestions() {
	list := s.suggest.Suggestions()
	if len(list) == 0 {
		fmt.Fprintln(s.out, s.st.muted.Render("No suggestions."))
		return
	}
	for i, tip := range list {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, tip)
	}
}
