package crowip

import "strconv"

const (
	tokenStatus = "STATUS"
	tokenEnter  = "E"
	tokenArm    = "ARM"
	tokenStay   = "STAY"
	tokenBypass = "BYPASS"
	tokenPanic  = "PANIC"
	tokenRelay  = "RL"
)

// keySequence is an ordered list of keypad tokens sent one line each, with
// a pause between them.
type keySequence []string

func disarmSequence(code string) keySequence {
	if code == "" {
		return nil
	}
	return keySequence{code, tokenEnter}
}

// codeSequence builds "[code] key E". An empty code sends the key alone so
// the code can be typed afterwards with a keypress.
func codeSequence(code, key string) keySequence {
	if code == "" {
		return keySequence{key, tokenEnter}
	}
	return keySequence{code, key, tokenEnter}
}

func outputSequence(n int) keySequence {
	if n < 1 {
		return nil
	}
	return keySequence{tokenRelay + strconv.Itoa(n)}
}

func keypressSequence(token string) keySequence {
	if token == "" {
		return nil
	}
	return keySequence{token}
}

func panicSequence() keySequence {
	return keySequence{tokenPanic}
}
