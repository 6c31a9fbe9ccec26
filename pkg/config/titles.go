package config

import "fmt"

// Titles is the account-code-to-name lookup service. It is constructed
// from configuration and passed to consumers explicitly; there is no
// process-wide table.
type Titles struct {
	names map[int]string
	subs  map[int]map[int]string
}

// NewTitles builds the lookup from configuration entries.
func NewTitles(entries []TitleEntry) *Titles {
	t := &Titles{
		names: make(map[int]string),
		subs:  make(map[int]map[int]string),
	}
	for _, e := range entries {
		if e.SubTitle == 0 {
			t.names[e.Title] = e.Name
			continue
		}
		if t.subs[e.Title] == nil {
			t.subs[e.Title] = make(map[int]string)
		}
		t.subs[e.Title][e.SubTitle] = e.Name
	}
	return t
}

// Name returns the display name of an account code, falling back to the
// numeric code when the table has no entry.
func (t *Titles) Name(title, subTitle int) string {
	if subTitle != 0 {
		if n, ok := t.subs[title][subTitle]; ok {
			return fmt.Sprintf("%s/%s", t.plain(title), n)
		}
		return fmt.Sprintf("%04d%02d", title, subTitle)
	}
	return t.plain(title)
}

func (t *Titles) plain(title int) string {
	if n, ok := t.names[title]; ok {
		return n
	}
	return fmt.Sprintf("%04d", title)
}
