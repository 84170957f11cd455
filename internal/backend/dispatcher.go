package backend

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/eddy-sim/eddy/internal/tensor"
)

// Dispatcher routes operations to the first registered backend whose
// IsApplicable accepts the operands. Registration order is priority order.
// The Dispatcher is itself a Backend, so code written against the capability
// interface runs unchanged over one engine or many.
//
// Backends are expected to be mutually exclusive by operand representation,
// so first-applicable is effectively best-applicable and no ranking is
// needed. Registration is meant for initialization; dispatch takes a read
// lock so late registration is safe but not expected.
type Dispatcher struct {
	mu       sync.RWMutex
	backends []Backend
	log      *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger routes registry events to l instead of discarding them.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// NewDispatcher returns an empty registry.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends a backend at the lowest priority. It fails with
// DuplicateBackendError, leaving the registry unchanged, if the name is
// already taken.
func (d *Dispatcher) Register(b Backend) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.backends {
		if existing.Name() == b.Name() {
			return &DuplicateBackendError{Name: b.Name()}
		}
	}
	d.backends = append(d.backends, b)
	d.log.Debug("backend registered", "name", b.Name(), "priority", len(d.backends)-1)
	return nil
}

// Backends returns the registered names in priority order.
func (d *Dispatcher) Backends() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, len(d.backends))
	for i, b := range d.backends {
		names[i] = b.Name()
	}
	return names
}

// Name implements Backend.
func (d *Dispatcher) Name() string { return "dynamic" }

// IsApplicable reports whether any registered backend accepts the operands.
func (d *Dispatcher) IsApplicable(values []any) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.backends {
		if b.IsApplicable(values) {
			return true
		}
	}
	return false
}

// IsTensor dispatches on x but downgrades NoBackendFoundError to false.
// No other operation may swallow that failure.
func (d *Dispatcher) IsTensor(x any) bool {
	b, err := d.choose(x)
	if err != nil {
		return false
	}
	return b.IsTensor(x)
}

// choose selects the backend for a single dispatch key. A key that is itself
// a sequence is scanned element-wise; any other key is treated as a
// one-element sequence.
func (d *Dispatcher) choose(key any) (Backend, error) {
	return d.chooseSeq(asOperands(key))
}

// chooseSeq scans the registry in priority order and returns the first
// backend accepting the operand sequence.
func (d *Dispatcher) chooseSeq(seq []any) (Backend, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.backends {
		if b.IsApplicable(seq) {
			return b, nil
		}
	}
	names := make([]string, len(d.backends))
	for i, b := range d.backends {
		names[i] = b.Name()
	}
	return nil, &NoBackendFoundError{Values: seq, Backends: names}
}

// asOperands normalizes a dispatch key into an operand sequence. Slices and
// arrays expand to their elements; everything else wraps as a single operand.
func asOperands(key any) []any {
	if seq, ok := key.([]any); ok {
		return seq
	}
	rv := reflect.ValueOf(key)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		seq := make([]any, rv.Len())
		for i := range seq {
			seq[i] = rv.Index(i).Interface()
		}
		return seq
	}
	return []any{key}
}

// IsNoBackendFound reports whether err is a dispatch failure.
func IsNoBackendFound(err error) bool {
	var nbf *NoBackendFoundError
	return errors.As(err, &nbf)
}

// Forwarded operations. Each keys the backend choice on its data payload per
// the dispatch-key contract: unary operations on the operand, binary
// operations on the data pair, heterogeneous operations on the subset of
// arguments that carry data. Wrong keying would silently select an engine
// that cannot handle the remaining arguments.

func (d *Dispatcher) AsTensor(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.AsTensor(x)
}

func (d *Dispatcher) RandomUniform(shape []int) (any, error) {
	b, err := d.choose(shape)
	if err != nil {
		return nil, err
	}
	return b.RandomUniform(shape)
}

func (d *Dispatcher) Range(start, limit, delta any) (any, error) {
	b, err := d.chooseSeq([]any{start, limit, delta})
	if err != nil {
		return nil, err
	}
	return b.Range(start, limit, delta)
}

func (d *Dispatcher) ZerosLike(value any) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.ZerosLike(value)
}

func (d *Dispatcher) OnesLike(value any) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.OnesLike(value)
}

func (d *Dispatcher) Shape(value any) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Shape(value)
}

func (d *Dispatcher) StaticShape(value any) ([]int, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.StaticShape(value)
}

func (d *Dispatcher) DType(value any) (tensor.DataType, error) {
	b, err := d.choose(value)
	if err != nil {
		return 0, err
	}
	return b.DType(value)
}

func (d *Dispatcher) Add(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Add(a, b)
}

func (d *Dispatcher) Sub(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Sub(a, b)
}

func (d *Dispatcher) Mul(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Mul(a, b)
}

func (d *Dispatcher) Div(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Div(a, b)
}

func (d *Dispatcher) Pow(base, exp any) (any, error) {
	be, err := d.chooseSeq([]any{base, exp})
	if err != nil {
		return nil, err
	}
	return be.Pow(base, exp)
}

func (d *Dispatcher) Maximum(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Maximum(a, b)
}

func (d *Dispatcher) Minimum(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Minimum(a, b)
}

func (d *Dispatcher) DivideNoNan(x, y any) (any, error) {
	b, err := d.chooseSeq([]any{x, y})
	if err != nil {
		return nil, err
	}
	return b.DivideNoNan(x, y)
}

func (d *Dispatcher) Equal(x, y any) (any, error) {
	b, err := d.chooseSeq([]any{x, y})
	if err != nil {
		return nil, err
	}
	return b.Equal(x, y)
}

func (d *Dispatcher) Abs(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Abs(x)
}

func (d *Dispatcher) Sign(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Sign(x)
}

func (d *Dispatcher) Round(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Round(x)
}

func (d *Dispatcher) Ceil(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Ceil(x)
}

func (d *Dispatcher) Floor(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Floor(x)
}

func (d *Dispatcher) Sqrt(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Sqrt(x)
}

func (d *Dispatcher) Exp(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Exp(x)
}

func (d *Dispatcher) Sin(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Sin(x)
}

func (d *Dispatcher) Cos(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Cos(x)
}

func (d *Dispatcher) IsFinite(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.IsFinite(x)
}

func (d *Dispatcher) Sum(value any, axes []int, keepDims bool) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Sum(value, axes, keepDims)
}

func (d *Dispatcher) Prod(value any, axes []int) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Prod(value, axes)
}

func (d *Dispatcher) Mean(value any, axes []int, keepDims bool) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Mean(value, axes, keepDims)
}

func (d *Dispatcher) Std(x any, axes []int) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Std(x, axes)
}

func (d *Dispatcher) Max(x any, axes []int) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Max(x, axes)
}

func (d *Dispatcher) Min(x any, axes []int) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Min(x, axes)
}

func (d *Dispatcher) Any(booleanTensor any, axes []int, keepDims bool) (any, error) {
	b, err := d.choose(booleanTensor)
	if err != nil {
		return nil, err
	}
	return b.Any(booleanTensor, axes, keepDims)
}

func (d *Dispatcher) All(booleanTensor any, axes []int, keepDims bool) (any, error) {
	b, err := d.choose(booleanTensor)
	if err != nil {
		return nil, err
	}
	return b.All(booleanTensor, axes, keepDims)
}

func (d *Dispatcher) Stack(values []any, axis int) (any, error) {
	b, err := d.chooseSeq(values)
	if err != nil {
		return nil, err
	}
	return b.Stack(values, axis)
}

func (d *Dispatcher) Concat(values []any, axis int) (any, error) {
	b, err := d.chooseSeq(values)
	if err != nil {
		return nil, err
	}
	return b.Concat(values, axis)
}

func (d *Dispatcher) Unstack(value any, axis int) ([]any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Unstack(value, axis)
}

func (d *Dispatcher) Tile(value any, multiples []int) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Tile(value, multiples)
}

func (d *Dispatcher) Pad(value any, padWidth [][2]int, mode PadMode, constantValue any) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Pad(value, padWidth, mode, constantValue)
}

func (d *Dispatcher) Reshape(value any, shape []int) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.Reshape(value, shape)
}

func (d *Dispatcher) ExpandDims(value any, axis, number int) (any, error) {
	b, err := d.choose(value)
	if err != nil {
		return nil, err
	}
	return b.ExpandDims(value, axis, number)
}

func (d *Dispatcher) Dot(a, b any, aAxes, bAxes []int) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.Dot(a, b, aAxes, bAxes)
}

func (d *Dispatcher) MatMul(a, b any) (any, error) {
	be, err := d.chooseSeq([]any{a, b})
	if err != nil {
		return nil, err
	}
	return be.MatMul(a, b)
}

func (d *Dispatcher) Conv(value, kernel any, padding ConvPadding) (any, error) {
	b, err := d.chooseSeq([]any{value, kernel})
	if err != nil {
		return nil, err
	}
	return b.Conv(value, kernel, padding)
}

func (d *Dispatcher) Resample(values, sampleCoords any, interpolation Interpolation, boundary Boundary) (any, error) {
	b, err := d.chooseSeq([]any{values, sampleCoords})
	if err != nil {
		return nil, err
	}
	return b.Resample(values, sampleCoords, interpolation, boundary)
}

func (d *Dispatcher) FFT(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.FFT(x)
}

func (d *Dispatcher) IFFT(k any) (any, error) {
	b, err := d.choose(k)
	if err != nil {
		return nil, err
	}
	return b.IFFT(k)
}

func (d *Dispatcher) Real(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Real(x)
}

func (d *Dispatcher) Imag(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Imag(x)
}

// Where keys on all three operands: an engine able to hold the branches must
// also read the condition.
func (d *Dispatcher) Where(condition, x, y any) (any, error) {
	b, err := d.chooseSeq([]any{condition, x, y})
	if err != nil {
		return nil, err
	}
	return b.Where(condition, x, y)
}

// Gather keys on the values only; indices are auxiliary.
func (d *Dispatcher) Gather(values, indices any) (any, error) {
	b, err := d.chooseSeq([]any{values})
	if err != nil {
		return nil, err
	}
	return b.Gather(values, indices)
}

// GatherND keys on the values only; indices are auxiliary.
func (d *Dispatcher) GatherND(values, indices any) (any, error) {
	b, err := d.chooseSeq([]any{values})
	if err != nil {
		return nil, err
	}
	return b.GatherND(values, indices)
}

func (d *Dispatcher) BooleanMask(x, mask any) (any, error) {
	b, err := d.chooseSeq([]any{x, mask})
	if err != nil {
		return nil, err
	}
	return b.BooleanMask(x, mask)
}

// Scatter keys on the sample points only.
func (d *Dispatcher) Scatter(points, indices, values any, shape []int, duplicatesHandling DuplicatesHandling) (any, error) {
	b, err := d.choose(points)
	if err != nil {
		return nil, err
	}
	return b.Scatter(points, indices, values, shape, duplicatesHandling)
}

// SparseTensor keys on the indices and values pair; the shape is auxiliary.
func (d *Dispatcher) SparseTensor(indices, values any, shape []int) (any, error) {
	b, err := d.chooseSeq([]any{indices, values})
	if err != nil {
		return nil, err
	}
	return b.SparseTensor(indices, values, shape)
}

func (d *Dispatcher) ToFloat(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.ToFloat(x)
}

func (d *Dispatcher) ToInt(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.ToInt(x)
}

func (d *Dispatcher) ToComplex(x any) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.ToComplex(x)
}

func (d *Dispatcher) Cast(x any, dtype tensor.DataType) (any, error) {
	b, err := d.choose(x)
	if err != nil {
		return nil, err
	}
	return b.Cast(x, dtype)
}

// WhileLoop keys on the loop variables.
func (d *Dispatcher) WhileLoop(cond Predicate, body Transform, loopVars []any, maximumIterations int) ([]any, error) {
	b, err := d.chooseSeq(loopVars)
	if err != nil {
		return nil, err
	}
	return b.WhileLoop(cond, body, loopVars, maximumIterations)
}

// WithCustomGradient keys on the first input.
func (d *Dispatcher) WithCustomGradient(function Function, inputs []any, gradient Gradient, inputIndex, outputIndex int, nameBase string) (any, error) {
	b, err := d.choose(inputs[0])
	if err != nil {
		return nil, err
	}
	return b.WithCustomGradient(function, inputs, gradient, inputIndex, outputIndex, nameBase)
}
