package entity

import (
	"fmt"

	"github.com/samdwyer/duelsim/internal/gamedata"
)

var (
	opponentNames = []string{
		"Varek", "Sylwen", "Morga", "Tharn", "Ilsa", "Corvin", "Dagna", "Reth",
		"Osric", "Neve", "Bram", "Kaelith",
	}
	physicalTitles = []string{"the Butcher", "Ironhide", "the Relentless", "Bloodfang", "the Wall"}
	magicTitles    = []string{"the Hexer", "Emberhand", "the Whisperer", "Stormcaller", "the Pale"}
)

// Rand is the random source opponent naming draws from.
type Rand interface {
	IntN(n int) int
}

// OpponentName builds a display name for a generated challenger. The title
// reflects the opponent's attack type.
func OpponentName(rng Rand, attackType gamedata.DamageKind) string {
	name := opponentNames[rng.IntN(len(opponentNames))]
	titles := physicalTitles
	if attackType == gamedata.Magic {
		titles = magicTitles
	}
	return name + " " + titles[rng.IntN(len(titles))]
}

// OpponentID returns the stable ID used for a challenge's opponent in a round.
func OpponentID(challengeID string, round int) string {
	return fmt.Sprintf("%s-r%d", challengeID, round)
}
