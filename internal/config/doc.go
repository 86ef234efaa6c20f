// Package config provides layered configuration for the crime trend
// analysis tooling.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Built-in defaults (ten-year window 2014-2023, Toronto open-data
//     column conventions, console JSON logging)
//  2. An optional YAML config file
//  3. Environment variables with the NIATREND_ prefix, e.g.
//     NIATREND_ANALYSIS_START_YEAR=2015
//
// The merged configuration is validated with struct tags before use;
// an inverted analysis window or an unknown logging mode fails fast.
package config
