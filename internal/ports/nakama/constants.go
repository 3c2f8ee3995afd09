package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameHokm is the authoritative match handler name registered with Nakama.
	MatchNameHokm = "hokm_match"

	// GameConfigPath is where the game rules file is expected relative to the
	// Nakama data directory.
	GameConfigPath = "data/game_config.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpChooseTrump int64 = 2
	OpPlayCard    int64 = 3
	OpNextRound   int64 = 4
	OpSetReady    int64 = 5

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpPlayerReady  int64 = 103
	OpHandDealt    int64 = 104 // sent privately
	OpRoundStarted int64 = 105
	OpTrumpChosen  int64 = 106
	OpCardPlayed   int64 = 107
	OpTrickWon     int64 = 108
	OpRoundEnded   int64 = 109
	OpGameEnded    int64 = 110
	OpCancelled    int64 = 111
	OpGameError    int64 = 112
)
