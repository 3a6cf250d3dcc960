package models

import "time"

// Config collects everything main reads from the environment. Values are
// validated at startup; services receive only the fields they need.
type Config struct {
	GuildID string
	// PaymentLogChannelID is the channel whose history the payment oracle
	// scans for ledger-bot messages.
	PaymentLogChannelID string
	// PayeeAlias must appear in a ledger message for it to count as a
	// payment to the house.
	PayeeAlias   string
	CurrencyUnit string
	PokerFee     int
	// VerifyDelay is how long after poker begin the payment check fires.
	VerifyDelay time.Duration
	// VCAdminIDs hold the elevated management capability for leases they
	// do not own.
	VCAdminIDs  []string
	SpeciesFile string
	// Keep-alive HTTP shim.
	Port       string
	AdminToken string
}
