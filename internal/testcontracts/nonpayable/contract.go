package nonpayable

// Ping is the only method of the contract which has no NEP-17 payment callback.
func Ping() bool {
	return true
}
