package domain

// ValidCombination decides whether a source may invite a target into a
// group. Exactly one direction must hold: the source is the group admin
// inviting someone with no group in the space, or the source has no group
// and invites the group admin to pull them in.
func ValidCombination(sourceIsAdmin, targetIsAdmin, sourceHasGroup, targetHasGroup bool) bool {
	return (sourceIsAdmin && !targetHasGroup) != (targetIsAdmin && !sourceHasGroup)
}
