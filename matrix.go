package main

//
// Matrix multiplication, the '.' operator.  Both operands must be
// numeric arrays of at most two dimensions; the four legal shape
// pairings and their result shapes are:
//
//	vector(n) . vector(n)    -> vector(1)   (dot product)
//	vector(m) . matrix(m,n)  -> vector(n)   (row vector)
//	matrix(m,n) . vector(n)  -> vector(m)   (column vector)
//	matrix(m,n) . matrix(n,p)-> matrix(m,p)
//
// Anything else is a dimension fault.  Accumulation is in float64
// when either operand holds floats, otherwise in checked int64
//

func (ctx *evalCtx) evalMatMul() {

	r := ctx.stack.popArray()
	l := ctx.stack.popArray()

	runtimeCheck(l.elemKind != kindString && r.elemKind != kindString,
		EARRAYBADOP)
	runtimeCheck(len(l.dims) <= 2 && len(r.dims) <= 2, EMATDIM)

	// Express both operands as rows x cols, a vector being a
	// single row on the left and a single column on the right

	lRows, lCols := 1, l.dims[0]
	if len(l.dims) == 2 {
		lRows, lCols = l.dims[0], l.dims[1]
	}

	rRows, rCols := r.dims[0], 1
	if len(r.dims) == 2 {
		rRows, rCols = r.dims[0], r.dims[1]
	}

	runtimeCheck(lCols == rRows, EMATDIM)

	var resDims []int

	switch {
	case len(l.dims) == 1 && len(r.dims) == 1:
		resDims = []int{1}

	case len(l.dims) == 1:
		resDims = []int{rCols}

	case len(r.dims) == 1:
		resDims = []int{lRows}

	default:
		resDims = []int{lRows, rCols}
	}

	elemKind := kindInt64
	if l.elemKind == kindFloat || r.elemKind == kindFloat {
		elemKind = kindFloat
	}
	if isNarrowKind(l.elemKind) && isNarrowKind(r.elemKind) {
		elemKind = kindInt32
	}

	res := ctx.allocArrayTemp(resDims, elemKind)

	for i := 0; i < lRows; i++ {
		for j := 0; j < rCols; j++ {
			if elemKind == kindFloat {
				acc := 0.0

				for k := 0; k < lCols; k++ {
					acc += l.itemAt(i*lCols+k).toFloat() *
						r.itemAt(k*rCols+j).toFloat()
				}

				res.f[i*rCols+j] = ctx.checkFloat(acc)
			} else {
				var acc int64

				for k := 0; k < lCols; k++ {
					acc = addInt64Checked(acc,
						mulInt64Checked(l.itemAt(i*lCols+k).ival,
							r.itemAt(k*rCols+j).ival))
				}

				res.setItemAt(i*rCols+j,
					stackItem{kind: kindInt64, ival: acc})
			}
		}
	}

	ctx.stack.push(stackItem{kind: kindArrayTemp, arr: res})
}
