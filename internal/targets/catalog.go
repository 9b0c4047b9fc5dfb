// Package targets holds the built-in list of addresses pingboard probes.
//
// Targets are grouped into named categories for display. Categories have
// no effect on probing: the monitor loop only ever sees the flattened,
// ordered address list, and a target's position in that list is its
// identity. The same address may appear in more than one group.
package targets

// Group is a named set of targets shown together on the dashboard.
type Group struct {
	Name    string
	Targets []string
}

var catalog = []Group{
	{
		Name: "General",
		Targets: []string{
			"google.com",
			"cloudflare.com",
			"youtube.com",
			"twitch.tv",
			"github.com",
			"stackoverflow.com",
			"discord.com",
			"steamcommunity.com",
		},
	},
	{
		Name: "Counter-Strike 2 (official)",
		Targets: []string{
			"146.66.152.1",  // Stockholm
			"155.133.232.1", // Luxembourg
			"155.133.248.1", // Vienna
			"185.25.182.1",  // Paris
			"185.40.64.1",   // Frankfurt
			"185.93.2.1",    // London
			"146.66.155.1",  // Madrid
			"146.66.158.1",  // Stockholm backup
			"155.133.226.1", // Luxembourg backup
			"155.133.242.1", // Vienna backup
			"185.25.176.1",  // Paris backup
			"185.40.65.1",   // Frankfurt backup
			"185.93.3.1",    // London backup
		},
	},
	{
		Name: "Steam content (EU)",
		Targets: []string{
			"eu1.steamcontent.com",
			"eu2.steamcontent.com",
			"eu3.steamcontent.com",
			"eu4.steamcontent.com",
			"eu5.steamcontent.com",
			"eu6.steamcontent.com",
			"eu7.steamcontent.com",
			"eu8.steamcontent.com",
		},
	},
	{
		Name: "DNS & infrastructure",
		Targets: []string{
			"8.8.8.8",
			"1.1.1.1",
			"185.25.182.1",
			"185.40.64.1",
			"185.93.2.1",
		},
	},
}

// Catalog returns a copy of the built-in target groups in display order.
func Catalog() []Group {
	out := make([]Group, len(catalog))
	for i, g := range catalog {
		out[i] = Group{
			Name:    g.Name,
			Targets: append([]string(nil), g.Targets...),
		}
	}
	return out
}

// Flatten returns every target of groups in order. Index i of the result
// is the monitor loop's index for that entry.
func Flatten(groups []Group) []string {
	n := 0
	for _, g := range groups {
		n += len(g.Targets)
	}
	out := make([]string, 0, n)
	for _, g := range groups {
		out = append(out, g.Targets...)
	}
	return out
}

// Entry locates a flattened index within its group.
type Entry struct {
	Index  int
	Group  string
	Target string
}

// Entries returns one Entry per flattened target, in order.
func Entries(groups []Group) []Entry {
	var out []Entry
	for _, g := range groups {
		for _, t := range g.Targets {
			out = append(out, Entry{Index: len(out), Group: g.Name, Target: t})
		}
	}
	return out
}
