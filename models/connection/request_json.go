package connection

type ReqCreateGame struct {
	// all-lengths or largest-first; empty picks the server default
	Strategy string `json:"strategy,omitempty"`

	// Empty places the player's fleet at random
	Ships []ReqShipPlacement `json:"ships,omitempty"`
}

type ReqShipPlacement struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Length      int    `json:"length"`
	Orientation string `json:"orientation"`
}

type ReqAttack struct {
	GameUuid string `json:"game_uuid"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}
