package main

import "xsrfclient"

func main() {
	xsrfclient.Execute()
}
