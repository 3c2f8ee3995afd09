package app

import "hokm/internal/domain"

// PlayersToStartMatch is the number of occupied seats required to start.
// Hokm is strictly a four-player partnership game.
const PlayersToStartMatch = domain.SeatCount
