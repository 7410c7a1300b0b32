package command

// State holds the toggle flags owned by a Dispatcher.
// All flags start off. Only handlers mutate them.
type State struct {
	LeftBlinker  bool `json:"left_blinker"`
	RightBlinker bool `json:"right_blinker"`
	LeftEye      bool `json:"left_eye"`
	RightEye     bool `json:"right_eye"`
	// EyesOn tracks eyes lit by choreography color flashes, independent of
	// the per-side eye toggles.
	EyesOn bool `json:"eyes_on"`
}
