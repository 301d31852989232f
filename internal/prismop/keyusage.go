package prismop

// KeyUsage classifies what a public key inside a DID document is for.
// MasterKey and VdrKey are structurally constrained to secp256k1; the
// rest may use any of the three supported curves.
type KeyUsage int32

const (
	KeyUsageUnknown KeyUsage = iota
	KeyUsageMaster
	KeyUsageIssuing
	KeyUsageKeyAgreement
	KeyUsageAuthentication
	KeyUsageRevocation
	KeyUsageCapabilityInvocation
	KeyUsageCapabilityDelegation
	KeyUsageVdr
)

func (u KeyUsage) String() string {
	switch u {
	case KeyUsageMaster:
		return "MasterKey"
	case KeyUsageIssuing:
		return "IssuingKey"
	case KeyUsageKeyAgreement:
		return "KeyAgreementKey"
	case KeyUsageAuthentication:
		return "AuthenticationKey"
	case KeyUsageRevocation:
		return "RevocationKey"
	case KeyUsageCapabilityInvocation:
		return "CapabilityInvocationKey"
	case KeyUsageCapabilityDelegation:
		return "CapabilityDelegationKey"
	case KeyUsageVdr:
		return "VdrKey"
	default:
		return "UnknownKey"
	}
}

// Valid reports whether u is a known, non-zero key usage.
func (u KeyUsage) Valid() bool {
	return u >= KeyUsageMaster && u <= KeyUsageVdr
}
