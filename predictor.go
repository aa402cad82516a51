// Copyright 2020 Jochen Voss <voss@seehuhn.de>
//
// Adapted from the teacher's pngUpReader/pngUpWriter (Up-only) into a
// general PNG (filters 0-4) and TIFF-2 predictor, per spec §4.4.

package pdf

// predictorDecode reverses a PNG/TIFF row predictor (spec §4.4, component
// C4). predictor values: 1 (none), 2 (TIFF), 10-15 (PNG, filter byte per
// row selects the actual filter 0-4).
func predictorDecode(data []byte, predictor, colors, bits, columns int) ([]byte, error) {
	if predictor <= 1 {
		return data, nil
	}
	colors = normalizeColors(colors)
	bits = normalizeBits(bits)
	columns = normalizeColumns(columns)
	bpp := (bits + 7) / 8

	switch {
	case predictor == 2:
		return tiffPredictorDecode(data, columns, bpp)
	case predictor >= 10 && predictor <= 15:
		return pngPredictorDecode(data, columns, bpp)
	default:
		return nil, newFileError(CategoryFilter, 0, "unsupported predictor %d", predictor)
	}
}

func normalizeColors(c int) int {
	if c < 1 {
		return 1
	}
	return c
}

func normalizeBits(b int) int {
	switch b {
	case 1, 2, 4, 8, 16:
		return b
	default:
		return 8
	}
}

func normalizeColumns(c int) int {
	if c < 1 {
		return 1
	}
	return c
}

func tiffPredictorDecode(data []byte, columns, bpp int) ([]byte, error) {
	rowLen := columns
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, newFileError(CategoryFilter, 0,
			"TIFF predictor: data length %d is not a multiple of row length %d", len(data), rowLen)
	}
	out := append([]byte(nil), data...)
	rows := len(out) / rowLen
	for r := 0; r < rows; r++ {
		row := out[r*rowLen : (r+1)*rowLen]
		for i := bpp; i < len(row); i++ {
			row[i] = row[i] + row[i-bpp]
		}
	}
	return out, nil
}

func tiffPredictorEncode(data []byte, columns, bpp int) ([]byte, error) {
	rowLen := columns
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, newFileError(CategoryFilter, 0,
			"TIFF predictor: data length %d is not a multiple of row length %d", len(data), rowLen)
	}
	out := append([]byte(nil), data...)
	rows := len(out) / rowLen
	for r := 0; r < rows; r++ {
		row := out[r*rowLen : (r+1)*rowLen]
		for i := len(row) - 1; i >= bpp; i-- {
			row[i] = row[i] - row[i-bpp]
		}
	}
	return out, nil
}

func pngPredictorDecode(data []byte, columns, bpp int) ([]byte, error) {
	rowLen := columns + 1
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, newFileError(CategoryFilter, 0,
			"PNG predictor: data length %d is not a multiple of row length %d", len(data), rowLen)
	}
	rows := len(data) / rowLen
	out := make([]byte, rows*columns)
	prevRow := make([]byte, columns)

	for r := 0; r < rows; r++ {
		rowData := data[r*rowLen : (r+1)*rowLen]
		filterByte := rowData[0]
		in := rowData[1:]
		curRow := make([]byte, columns)

		switch filterByte {
		case 0: // None
			copy(curRow, in)
		case 1: // Sub
			for i := 0; i < columns; i++ {
				var left byte
				if i >= bpp {
					left = curRow[i-bpp]
				}
				curRow[i] = in[i] + left
			}
		case 2: // Up
			for i := 0; i < columns; i++ {
				curRow[i] = in[i] + prevRow[i]
			}
		case 3: // Average
			for i := 0; i < columns; i++ {
				var left byte
				if i >= bpp {
					left = curRow[i-bpp]
				}
				curRow[i] = in[i] + byte((int(left)+int(prevRow[i]))/2)
			}
		case 4: // Paeth
			for i := 0; i < columns; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = curRow[i-bpp]
					upLeft = prevRow[i-bpp]
				}
				curRow[i] = in[i] + paethPredictor(left, prevRow[i], upLeft)
			}
		default:
			return nil, newFileError(CategoryFilter, 0, "invalid PNG predictor filter byte %d", filterByte)
		}

		copy(out[r*columns:(r+1)*columns], curRow)
		prevRow = curRow
	}

	return out, nil
}

// pngPredictorEncode always emits the Up filter (filterByte 2 relative to
// the row), matching the only PNG variant the teacher's writer supported
// before this file generalized the decoder to all five filter types; the
// encoder is a test/round-trip helper only (writing is out of core scope).
func pngPredictorEncode(data []byte, columns, bpp int) ([]byte, error) {
	if columns <= 0 || len(data)%columns != 0 {
		return nil, newFileError(CategoryFilter, 0,
			"PNG predictor: data length %d is not a multiple of columns %d", len(data), columns)
	}
	rows := len(data) / columns
	out := make([]byte, 0, rows*(columns+1))
	prevRow := make([]byte, columns)

	for r := 0; r < rows; r++ {
		curRow := data[r*columns : (r+1)*columns]
		encoded := make([]byte, columns)
		for i := 0; i < columns; i++ {
			encoded[i] = curRow[i] - prevRow[i]
		}
		out = append(out, 2) // Up
		out = append(out, encoded...)
		prevRow = curRow
	}
	return out, nil
}

func paethPredictor(a, b, c byte) byte {
	pa := absInt(int(b) - int(c))
	pb := absInt(int(a) - int(c))
	pc := absInt(int(a) + int(b) - 2*int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

// applyStreamPredictor applies the /Predictor entry of a FlateDecode or
// LZWDecode filter's /DecodeParms dictionary, if present (spec §4.3/§4.4).
// A missing or absent dictionary, or /Predictor 1 (the default, "no
// prediction"), leaves data unchanged.
func applyStreamPredictor(parms Dict, data []byte) ([]byte, error) {
	if parms == nil {
		return data, nil
	}
	predictor := 1
	if v, ok := parms["Predictor"].(Integer); ok {
		predictor = int(v)
	}
	if predictor <= 1 {
		return data, nil
	}
	colors := 1
	if v, ok := parms["Colors"].(Integer); ok {
		colors = int(v)
	}
	bits := 8
	if v, ok := parms["BitsPerComponent"].(Integer); ok {
		bits = int(v)
	}
	columns := 1
	if v, ok := parms["Columns"].(Integer); ok {
		columns = int(v)
	}
	return predictorDecode(data, predictor, colors, bits, columns)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
