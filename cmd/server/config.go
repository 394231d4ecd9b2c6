package main

var appConfig = struct {
	AppName string

	Port string
	Env  string
}{
	AppName: "Life Analytics Calendar Server",
	Port:    "8080",
}
