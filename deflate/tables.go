package deflate

// codeLengthOrder is the order in which a dynamic block's HCLEN code-length
// code lengths arrive (RFC 1951 §3.2.7): the code-length alphabet itself is
// transmitted out of symbol order so that trailing all-zero entries (the
// common case) can be truncated by a short HCLEN.
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthEntry is one row of the RFC 1951 §3.2.5 length table: base is the
// shortest length the code represents, extra is how many additional bits
// follow in the bitstream (added to base).
type lengthEntry struct {
	base  uint32
	extra uint
}

// lengthTable covers length symbols 257..285 (index 0 == symbol 257).
var lengthTable = [29]lengthEntry{
	{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0}, {10, 0},
	{11, 1}, {13, 1}, {15, 1}, {17, 1},
	{19, 2}, {23, 2}, {27, 2}, {31, 2},
	{35, 3}, {43, 3}, {51, 3}, {59, 3},
	{67, 4}, {83, 4}, {99, 4}, {115, 4},
	{131, 5}, {163, 5}, {195, 5}, {227, 5},
	{258, 0},
}

// distanceTable covers distance symbols 0..29.
var distanceTable = [30]lengthEntry{
	{1, 0}, {2, 0}, {3, 0}, {4, 0},
	{5, 1}, {7, 1},
	{9, 2}, {13, 2},
	{17, 3}, {25, 3},
	{33, 4}, {49, 4},
	{65, 5}, {97, 5},
	{129, 6}, {193, 6},
	{257, 7}, {385, 7},
	{513, 8}, {769, 8},
	{1025, 9}, {1537, 9},
	{2049, 10}, {3073, 10},
	{4097, 11}, {6145, 11},
	{8193, 12}, {12289, 12},
	{16385, 13}, {24577, 13},
}

// fixedLitLengths is the hard-coded literal/length code-length vector RFC
// 1951 §3.2.6 defines for BTYPE=01 blocks.
var fixedLitLengths = func() [288]int {
	var l [288]int
	for i := 0; i < 144; i++ {
		l[i] = 8
	}
	for i := 144; i < 256; i++ {
		l[i] = 9
	}
	for i := 256; i < 280; i++ {
		l[i] = 7
	}
	for i := 280; i < 288; i++ {
		l[i] = 8
	}
	return l
}()

// fixedDistLengths is the hard-coded distance code-length vector for
// BTYPE=01 blocks: all 32 five-bit codes are assigned (only 0..29 are ever
// produced by a compliant encoder), which is what makes the code complete
// per RFC 1951 §3.2.2.
var fixedDistLengths = func() [32]int {
	var l [32]int
	for i := range l {
		l[i] = 5
	}
	return l
}()
