package battle

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// NewBot returns the synthetic player for a battle slot. The identity depends
// only on the battle id and slot, so backfilling the same slot twice yields
// the same bot and the same outcomes.
func NewBot(battleID string, slot int) *domain.BotIdentity {
	sum := sha256.Sum256([]byte(battleID + ":" + strconv.Itoa(slot)))
	name := botNames[binary.BigEndian.Uint32(sum[:4])%uint32(len(botNames))]

	return &domain.BotIdentity{
		ID:          fmt.Sprintf("%s-%s-%d", BotIDPrefix, shortID(battleID), slot),
		DisplayName: cases.Title(language.English).String(name),
		ClientSeed:  hex.EncodeToString(sum[:]),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
