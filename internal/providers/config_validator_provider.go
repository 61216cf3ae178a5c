package providers

import (
	"fmt"
	"pcd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("config validation failed: %s", v.Errors.One())
	}

	// Cross-field checks the tag syntax cannot express.
	sc := cv.conf.Scoring
	if sc.PeerMin >= sc.PeerMax {
		return fmt.Errorf("config validation failed: peerMin must be below peerMax")
	}
	if sc.PeerDefaultScore < sc.PeerMin || sc.PeerDefaultScore > sc.PeerMax {
		return fmt.Errorf("config validation failed: peerDefaultScore outside [%v, %v]", sc.PeerMin, sc.PeerMax)
	}
	if sc.JudgeFinalMin >= sc.JudgeFinalMax || sc.JudgeLiveMin >= sc.JudgeLiveMax {
		return fmt.Errorf("config validation failed: judge score range is empty")
	}
	return nil
}
