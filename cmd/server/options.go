package main

// Options are the command line flags. Everything else comes from the
// environment, optionally seeded from the env file.
type Options struct {
	EnvFile string `short:"e" long:"env-file" description:"dotenv file to load before reading the environment" default:".env"`
	Port    string `short:"p" long:"port" description:"port to listen on, overrides PORT"`
}
