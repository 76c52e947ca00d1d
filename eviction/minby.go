package eviction

/*
MinBy returns the item with the lowest score.

  - an item whose score is absent (ok=false) counts as +infinity
  - the first item reaching the minimum wins ties, so item order matters
  - if every score is absent the first item is returned
  - an empty slice returns the zero value and false
*/
func MinBy[T any](items []T, score func(T) (int64, bool)) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}

	minIdx := 0
	best, has := score(items[0])

	for i := 1; i < len(items); i++ {
		s, ok := score(items[i])
		if !ok {
			continue
		}
		if !has || s < best {
			best, has = s, true
			minIdx = i
		}
	}

	return items[minIdx], true
}
