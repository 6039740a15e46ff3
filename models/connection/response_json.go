package connection

import (
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

type RespCreateGame struct {
	GameUuid    string    `json:"game_uuid"`
	Strategy    string    `json:"strategy"`
	Fleet       []int     `json:"fleet"`
	DefenceGrid [][]uint8 `json:"defence_grid"`
}

type RespAttack struct {
	Row        int              `json:"row"`
	Col        int              `json:"col"`
	Outcome    string           `json:"outcome"`
	SunkLength int              `json:"sunk_length,omitempty"`
	SunkCells  []mb.Coordinates `json:"sunk_cells,omitempty"`
	IsTurn     bool             `json:"is_turn"`
}

type RespCpuAttack struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Outcome    string `json:"outcome"`
	SunkLength int    `json:"sunk_length,omitempty"`
	Mode       string `json:"mode"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespEndGame struct {
	PlayerMatchStatus int `json:"player_match_status"`

	// Mean engine shots per finished game for the strategy played,
	// absent when analytics are off
	EngineAverageShots float64 `json:"engine_average_shots,omitempty"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
