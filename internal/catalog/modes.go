package catalog

import "github.com/verte-zerg/cryptomatch/internal/model"

var defaultModes = []model.GameMode{
	{
		Name:             "Classic Mode",
		Description:      "Match pairs within the time limit. A perfect way to start!",
		TimeLimitSeconds: 60,
		XPMultiplier:     1,
	},
	{
		Name:             "Chain Combo Mode",
		Description:      "Quick matches build up your combo multiplier!",
		TimeLimitSeconds: 45,
		XPMultiplier:     1.5,
		Rules:            model.SpecialRules{ChainCombo: true},
	},
	{
		Name:             "Memory Challenge",
		Description:      "Memorize the cards before they flip! Test your memory.",
		TimeLimitSeconds: 40,
		XPMultiplier:     2,
		Rules:            model.SpecialRules{MemoryPhaseSeconds: 5, InvisibleCards: true},
	},
	{
		Name:             "Speed Round",
		Description:      "Race against time with shorter rounds!",
		TimeLimitSeconds: 30,
		XPMultiplier:     2.5,
		Rules:            model.SpecialRules{SpeedRound: true},
	},
	{
		Name:             "Chaos Mode",
		Description:      "Cards shuffle periodically! Stay focused.",
		TimeLimitSeconds: 50,
		XPMultiplier:     3,
		Rules:            model.SpecialRules{ShuffleIntervalSeconds: 5, ChainCombo: true},
	},
}

var defaultTips = []string{
	"Gas fees are like transaction costs in the blockchain world - they vary based on network congestion.",
	"Never share your private keys or seed phrases with anyone!",
	"Web3 is all about decentralization - giving power back to users.",
	"Smart contracts are self-executing contracts with the terms directly written into code.",
	"GameFi combines blockchain technology with gaming mechanics.",
	"Always double-check wallet addresses before sending transactions.",
	"A wallet is your gateway to Web3 - it stores your digital assets and credentials.",
	"Layer 2 solutions help make blockchain transactions faster and cheaper.",
	"DAOs are like digital organizations where decisions are made by community voting.",
	"NFTs can represent unique digital items, art, or even real-world assets.",
	"DeFi (Decentralized Finance) lets you access financial services without traditional banks.",
	"2FA (Two-Factor Authentication) adds an extra layer of security to your accounts.",
}
