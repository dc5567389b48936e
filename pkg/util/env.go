package util

import "os"

func GetEnv() string {
	if os.Getenv("env") == "k8s" {
		return "k8s"
	}

	return "dev"
}

// GetInstanceID k8s环境下使用pod名（HOSTNAME）作为实例ID，否则使用fallback
func GetInstanceID(fallback string) string {
	if GetEnv() == "k8s" {
		if hostname := os.Getenv("HOSTNAME"); hostname != "" {
			return hostname
		}
	}
	return fallback
}
