package track

// Partition splits two collections three ways: elements only in the first,
// elements only in the second, and elements common to both. Membership is
// decided by the key function; input order is preserved in every result.
func Partition[T any, K comparable](first, second []T, key func(T) K) (firstOnly, secondOnly, common []T) {
	firstKeys := make(map[K]struct{}, len(first))
	for _, item := range first {
		firstKeys[key(item)] = struct{}{}
	}
	secondKeys := make(map[K]struct{}, len(second))
	for _, item := range second {
		secondKeys[key(item)] = struct{}{}
	}

	for _, item := range first {
		if _, ok := secondKeys[key(item)]; ok {
			common = append(common, item)
		} else {
			firstOnly = append(firstOnly, item)
		}
	}
	for _, item := range second {
		if _, ok := firstKeys[key(item)]; !ok {
			secondOnly = append(secondOnly, item)
		}
	}
	return firstOnly, secondOnly, common
}
