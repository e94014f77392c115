// Package guard answers the single question "may this identity use this
// capability right now". Evaluation is pure: every check recomputes from the
// identity as given, nothing is cached, and a denial carries enough
// diagnostics to log or render without a second lookup.
//
// The HTTP middleware form protects chi routes: a denied request is answered
// with a JSON denial payload and the protected handler never runs.
package guard
