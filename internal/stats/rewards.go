package stats

import "github.com/verte-zerg/cryptomatch/internal/model"

const (
	// QualifyScore is the best score needed to claim the achievement NFT
	// and to count toward the airdrop.
	QualifyScore = 100
	// AirdropTarget is the number of qualified players that unlocks the airdrop.
	AirdropTarget = 420
)

// Eligible reports whether the player can claim the achievement NFT.
func Eligible(s model.PlayerStats) bool {
	return s.Score >= QualifyScore && !s.NFTMinted
}

// AirdropStatus is the community progress toward the airdrop.
type AirdropStatus struct {
	Qualified int     `json:"qualified"`
	Target    int     `json:"target"`
	Progress  float64 `json:"progress"`
}

// AirdropProgress computes progress for the given number of qualified players.
func AirdropProgress(qualified int) AirdropStatus {
	if qualified < 0 {
		qualified = 0
	}
	progress := float64(qualified) / float64(AirdropTarget)
	if progress > 1 {
		progress = 1
	}
	return AirdropStatus{Qualified: qualified, Target: AirdropTarget, Progress: progress}
}

// Unlocked reports whether the airdrop target was reached.
func (a AirdropStatus) Unlocked() bool {
	return a.Qualified >= a.Target
}
