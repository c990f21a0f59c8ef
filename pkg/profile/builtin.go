package profile

// Builtin returns a new set with the built-in device profiles.
func Builtin() Set {
	s := Set{}
	for _, p := range []*Profile{yamaha(), osram()} {
		if err := s.Add(p); err != nil {
			panic(err)
		}
	}
	return s
}

// yamaha is the remote of the Yamaha RX-E600MK2 receiver (custom code 0x78).
// POWER is only accepted if it is sent twice.
func yamaha() *Profile {
	return &Profile{
		Name:    "yamaha",
		Address: 0x78,
		Commands: map[string]int{
			"POWER":     0x0F,
			"DIGIT_0":   0x10,
			"DIGIT_1":   0x11,
			"DIGIT_2":   0x12,
			"DIGIT_3":   0x13,
			"DIGIT_4":   0x14,
			"DIGIT_5":   0x15,
			"DIGIT_6":   0x16,
			"DIGIT_7":   0x17,
			"DIGIT_8":   0x18,
			"DIGIT_9":   0x19,
			"MODE_10":   0x1A,
			"START_100": 0x1D,
			"REP_A":     0x0C,
			"RANDOM_B":  0x07,
			"PROG_C":    0x0B,
			"D_KEY":     0x09,
			"PAUSE":     0x0A,
			"TIME":      0x08,
			"PLAY":      0x02,
			"REW":       0x04,
			"STOP":      0x01,
			"FF":        0x03,
			"TAPE_DIR":  0x43,
			"PRESET_DN": 0x1C,
			"TUNER":     0x4B,
			"PRESET_UP": 0x1B,
			"MD":        0x57,
			"DVD":       0x4A,
			"TAPE":      0x41,
			"AUX":       0x49,
			"MD_REC":    0x58,
			"TAPE_REC":  0x46,
			"MODE":      0x05,
			"START":     0x06,
			"SLEEP":     0x4F,
			"VOL_UP":    0x1E,
			"DISPLAY":   0x4E,
			"VOL_DOWN":  0x1F,
		},
		Aliases: map[string]string{
			"PWR":     "POWER",
			"VOL+":    "VOL_UP",
			"VOLUP":   "VOL_UP",
			"VOL-":    "VOL_DOWN",
			"VOLDOWN": "VOL_DOWN",
			"FORWARD": "FF",
			"REWIND":  "REW",
			"RADIO":   "TUNER",
			"CD":      "MODE",
			"DISC":    "MODE",
			"RANDOM":  "RANDOM_B",
			"REPEAT":  "REP_A",
			"0":       "DIGIT_0",
			"1":       "DIGIT_1",
			"2":       "DIGIT_2",
			"3":       "DIGIT_3",
			"4":       "DIGIT_4",
			"5":       "DIGIT_5",
			"6":       "DIGIT_6",
			"7":       "DIGIT_7",
			"8":       "DIGIT_8",
			"9":       "DIGIT_9",
		},
		DoubleSend: []string{"POWER"},
	}
}

// osram is the 24 key remote of Osram LED Star+ RGBW bulbs.
// The bulbs ignore the address and only accept frames of 71 elements.
func osram() *Profile {
	return &Profile{
		Name:      "osram",
		Address:   0x00,
		MinLength: 71,
		Commands: map[string]int{
			"BRIGHT_UP":   0x00,
			"BRIGHT_DOWN": 0x02,
			"WHITE":       0x03,
			"OFF":         0x06,
			"ON":          0x07,
			"RED":         0x08,
			"GREEN":       0x09,
			"BLUE":        0x0A,
			"RED1":        0x0C,
			"GREEN1":      0x0D,
			"BLUE1":       0x0E,
			"FLASH":       0x0F,
			"RED2":        0x10,
			"GREEN2":      0x11,
			"BLUE2":       0x12,
			"STROBE":      0x13,
			"RED3":        0x14,
			"GREEN3":      0x15,
			"BLUE3":       0x16,
			"SMOOTH":      0x17,
			"RED4":        0x18,
			"GREEN4":      0x19,
			"BLUE4":       0x1A,
			"MODE":        0x1B,
		},
		Aliases: map[string]string{
			"POWER_ON":    "ON",
			"POWER_OFF":   "OFF",
			"POWER":       "ON",
			"BRIGHT+":     "BRIGHT_UP",
			"BRIGHT-":     "BRIGHT_DOWN",
			"BRIGHTER":    "BRIGHT_UP",
			"DIMMER":      "BRIGHT_DOWN",
			"LIGHT_UP":    "BRIGHT_UP",
			"LIGHT_DOWN":  "BRIGHT_DOWN",
			"R":           "RED",
			"G":           "GREEN",
			"B":           "BLUE",
			"W":           "WHITE",
			"BLINK":       "FLASH",
			"STROBOSCOPE": "STROBE",
			"GRADUAL":     "SMOOTH",
			"ORANGE":      "RED1",
			"CYAN":        "BLUE1",
			"PURPLE":      "RED2",
			"YELLOW":      "GREEN2",
			"PINK":        "RED3",
			"LIME":        "GREEN3",
			"VIOLET":      "BLUE3",
			"MAGENTA":     "RED4",
		},
		Cycle: []string{
			"RED", "RED1", "RED2", "RED3", "RED4",
			"GREEN", "GREEN1", "GREEN2", "GREEN3", "GREEN4",
			"BLUE", "BLUE1", "BLUE2", "BLUE3", "BLUE4",
			"WHITE",
		},
	}
}
