package domain

// BoxOpenedPayload is the event payload for box.opened events
type BoxOpenedPayload struct {
	OpeningID    string `json:"opening_id"`
	UserID       string `json:"user_id"`
	BoxID        string `json:"box_id"`
	Price        int64  `json:"price"`
	WonItemID    string `json:"won_item_id"`
	DisplayValue int64  `json:"display_value"`
	Rarity       string `json:"rarity"`
	Nonce        uint64 `json:"nonce"`
	Timestamp    int64  `json:"timestamp"`
}

// OpeningSettledPayload is the event payload for opening.settled events
type OpeningSettledPayload struct {
	OpeningID  string `json:"opening_id"`
	UserID     string `json:"user_id"`
	Settlement string `json:"settlement"`
	Amount     int64  `json:"amount"`
	Automatic  bool   `json:"automatic"`
	Timestamp  int64  `json:"timestamp"`
}

// BattleCreatedPayload is the event payload for battle.created events
type BattleCreatedPayload struct {
	BattleID   string `json:"battle_id"`
	CreatorID  string `json:"creator_id"`
	BoxID      string `json:"box_id"`
	SlotCount  int    `json:"slot_count"`
	RoundCount int    `json:"round_count"`
	EntryPrice int64  `json:"entry_price"`
	Timestamp  int64  `json:"timestamp"`
}

// BattleActivatedPayload is the event payload for battle.activated events
type BattleActivatedPayload struct {
	BattleID  string `json:"battle_id"`
	Reason    string `json:"reason"`
	BotCount  int    `json:"bot_count"`
	Timestamp int64  `json:"timestamp"`
}

// BattleFinishedPayload is the event payload for battle.finished events
type BattleFinishedPayload struct {
	BattleID   string  `json:"battle_id"`
	WinnerSlot int     `json:"winner_slot"`
	WinnerID   string  `json:"winner_id"`
	WinnerBot  bool    `json:"winner_bot"`
	Totals     []int64 `json:"totals"`
	PrizePool  int64   `json:"prize_pool"`
	Timestamp  int64   `json:"timestamp"`
}

// BattleClaimedPayload is the event payload for battle.claimed events
type BattleClaimedPayload struct {
	BattleID  string `json:"battle_id"`
	UserID    string `json:"user_id"`
	Choice    string `json:"choice"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// SeedRotatedPayload is the event payload for seed.rotated events
type SeedRotatedPayload struct {
	RetiredHash string `json:"retired_hash"`
	ActiveHash  string `json:"active_hash"`
	Timestamp   int64  `json:"timestamp"`
}
