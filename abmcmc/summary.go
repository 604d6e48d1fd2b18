package main

import "bitbucket.org/Davydov/abmcmc/abtest"

// CallSummary is storing abmcmc run summary information.
type CallSummary struct {
	// Version stores abmcmc version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Input is the input table file name.
	Input string `json:"input"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// Time is the computations time in seconds.
	TotalTime float64 `json:"time"`
	// Metrics stores results for every compared metric.
	Metrics []MetricSummary `json:"metrics"`
}

// MetricSummary is storing the comparison of one metric.
type MetricSummary struct {
	Metric string `json:"metric"`
	LabelA string `json:"labelA"`
	LabelB string `json:"labelB"`
	// ID is the database record id, if the result was stored.
	ID string `json:"id,omitempty"`
	// Time is the sampling time in seconds.
	Time   float64        `json:"time"`
	Result abtest.Summary `json:"result"`
}
