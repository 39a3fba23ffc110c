package gif

// ForEachSegment walks the S-lines in source order, yielding each
// segment's name and sequence bytes to segment. Iteration stops early,
// without error, the first time segment returns false.
func (f *File) ForEachSegment(segment func(name string, sequence []byte) bool) {
	tz := f.tz
	for _, iter := range f.Index.Segments {
		field := tz.FirstField(iter, 0)
		field = tz.NextField(field)
		name := field.String()

		field = tz.NextField(field)
		sequence := field.Bytes()

		if !segment(name, sequence) {
			return
		}
	}
}

// ForEachLink walks the L-lines in source order.
func (f *File) ForEachLink(link func(from string, fromReverse bool, to string, toReverse bool) bool) {
	tz := f.tz
	for _, iter := range f.Index.Links {
		field := tz.FirstField(iter, 0)

		field = tz.NextField(field)
		from := field.String()

		field = tz.NextField(field)
		fromReverse := field.IsReverseOrientation()

		field = tz.NextField(field)
		to := field.String()

		field = tz.NextField(field)
		toReverse := field.IsReverseOrientation()

		if !link(from, fromReverse, to, toReverse) {
			return
		}
	}
}

// ForEachPathName walks the P-lines in source order, yielding only the
// path name.
func (f *File) ForEachPathName(path func(name string) bool) {
	tz := f.tz
	for _, iter := range f.Index.Paths {
		field := tz.FirstField(iter, 0)
		field = tz.NextField(field)
		if !path(field.String()) {
			return
		}
	}
}

// ForEachPath walks the P-lines in source order, calling path once per
// line, pathSegment once per oriented segment reference, and finishPath
// once the line has been fully consumed. Any callback returning false
// stops iteration immediately.
func (f *File) ForEachPath(
	path func(name string) bool,
	pathSegment func(name string, isReverse bool) bool,
	finishPath func() bool,
) {
	tz := f.tz
	for _, iter := range f.Index.Paths {
		field := tz.FirstField(iter, 0)

		field = tz.NextField(field)
		if !path(field.String()) {
			return
		}

		for {
			field = tz.NextSubfield(field)
			name := field.PathSegmentName()
			if !pathSegment(name, field.IsReversePathSegment()) {
				return
			}
			if !field.HasNext {
				break
			}
		}

		if !finishPath() {
			return
		}
	}
}

// ForEachWalkName walks the W-lines in source order, yielding only the
// structured header fields.
func (f *File) ForEachWalkName(walk func(sample, haplotype, contig, start string) bool) {
	tz := f.tz
	for _, iter := range f.Index.Walks {
		field := tz.FirstField(iter, 0)

		field = tz.NextField(field)
		sample := field.String()

		field = tz.NextField(field)
		haplotype := field.String()

		field = tz.NextField(field)
		contig := field.String()

		field = tz.NextField(field)
		start := field.String()

		if !walk(sample, haplotype, contig, start) {
			return
		}
	}
}

// ForEachWalk walks the W-lines in source order, calling walk once per
// line's header, walkSegment once per oriented segment reference, and
// finishWalk once the line has been fully consumed.
func (f *File) ForEachWalk(
	walk func(sample, haplotype, contig, start string) bool,
	walkSegment func(name string, isReverse bool) bool,
	finishWalk func() bool,
) {
	tz := f.tz
	for _, iter := range f.Index.Walks {
		field := tz.FirstField(iter, 0)

		field = tz.NextField(field)
		sample := field.String()

		field = tz.NextField(field)
		haplotype := field.String()

		field = tz.NextField(field)
		contig := field.String()

		field = tz.NextField(field)
		start := field.String()

		if !walk(sample, haplotype, contig, start) {
			return
		}

		// Skip the end field.
		field = tz.NextField(field)

		if field.HasNext {
			field = tz.WalkStart(field)
			for {
				field = tz.NextWalkSubfield(field)
				name := field.WalkSegmentName()
				if !walkSegment(name, field.IsReverseWalkSegment()) {
					return
				}
				if !field.HasNext {
					break
				}
			}
		}

		if !finishWalk() {
			return
		}
	}
}
