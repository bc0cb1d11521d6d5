package services

import (
	"fmt"
	"io"
)

// Accuracy counts blocks by (graffiti proxy, algorithm verdict). Counters only
// grow; rates are conditioned on the proxy value.
type Accuracy struct {
	ProxyMatch    float64 // proxy true, verdict true
	ProxyMiss     float64 // proxy true, verdict false
	NonProxyMatch float64 // proxy false, verdict true
	NonProxyMiss  float64 // proxy false, verdict false
}

// Record adds one block.
func (a *Accuracy) Record(v Verdict) {
	switch {
	case v.GraffitiProxy && v.AlgorithmMatch:
		a.ProxyMatch++
	case v.GraffitiProxy:
		a.ProxyMiss++
	case v.AlgorithmMatch:
		a.NonProxyMatch++
	default:
		a.NonProxyMiss++
	}
}

// Rates returns P(match|proxy), P(miss|proxy), P(match|!proxy), P(miss|!proxy).
// A rate whose proxy class has no block yet is NaN.
func (a *Accuracy) Rates() [4]float64 {
	proxy := a.ProxyMatch + a.ProxyMiss
	nonProxy := a.NonProxyMatch + a.NonProxyMiss
	return [4]float64{
		a.ProxyMatch / proxy,
		a.ProxyMiss / proxy,
		a.NonProxyMatch / nonProxy,
		a.NonProxyMiss / nonProxy,
	}
}

// Total returns the number of recorded blocks.
func (a *Accuracy) Total() float64 {
	return a.ProxyMatch + a.ProxyMiss + a.NonProxyMatch + a.NonProxyMiss
}

// WriteRates prints the four rates on one line.
func (a *Accuracy) WriteRates(w io.Writer) error {
	r := a.Rates()
	_, err := fmt.Fprintf(w, "%-10.6f %-10.6f %-10.6f %-10.6f\n", r[0], r[1], r[2], r[3])
	return err
}
