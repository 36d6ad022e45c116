package document

// Business constants. These are policy, not configuration: changing one is a
// business decision and should show up in review, so they are compiled in
// rather than read from the environment.
const (
	// TrackingThresholdDays is how many days an outbound document may wait
	// for a reply before it needs attention.
	TrackingThresholdDays = 7

	// RecentMonths bounds the recent-documents listing (months of ~30 days).
	RecentMonths = 3

	// IDPrefixGeneral starts every allocated root document code.
	IDPrefixGeneral = "INQ"

	// IDPrefixReply starts every allocated reply code.
	IDPrefixReply = "RE"

	// MinSubjectRunes is the minimum subject length on creation.
	MinSubjectRunes = 5

	// MinKeywordRunes guards search against pathologically broad scans.
	MinKeywordRunes = 2
)
