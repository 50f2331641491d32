package stats

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeWallet validates a hex wallet address and returns its EIP-55
// checksummed form.
func NormalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if !common.IsHexAddress(wallet) {
		return "", ErrInvalidWallet
	}
	return common.HexToAddress(wallet).Hex(), nil
}

// ShortAddress abbreviates an address as 0x1234...abcd.
func ShortAddress(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}

// DisplayIdentity picks the name shown for a player: farcaster username,
// then ENS name, then the short wallet address.
func DisplayIdentity(farcaster, ens, wallet string) string {
	if farcaster = strings.TrimSpace(farcaster); farcaster != "" {
		return farcaster
	}
	if ens = strings.TrimSpace(ens); ens != "" {
		return ens
	}
	return ShortAddress(wallet)
}

// EntryName is the label shown for a leaderboard row.
func EntryName(displayIdentity, wallet string) string {
	return DisplayIdentity(displayIdentity, "", wallet)
}
