package domain

// Family names a group of repeated slot columns holding one multi-valued attribute.
type Family string

// Family constants.
const (
	FamilyGenre Family = "genre"
	FamilyTeam  Family = "team"
)

// Valid returns true if the family is a recognized slot group.
func (f Family) Valid() bool {
	return f == FamilyGenre || f == FamilyTeam
}

// Slots returns every slot of the family for a game, empty slots included.
func (f Family) Slots(g *Game) []string {
	switch f {
	case FamilyGenre:
		return g.Genres[:]
	case FamilyTeam:
		return g.Teams[:]
	default:
		return nil
	}
}

// OtherLabel is the reserved label of the long-tail bucket.
const OtherLabel = "Other"
