// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"encoding/json"
	"fmt"
	"os"
)

const vcapServicesEnv = "VCAP_SERVICES"

// ParseVcapServices parses a VCAP_SERVICES JSON document
func ParseVcapServices(data []byte) (*VcapServices, error) {
	services := VcapServices{}
	err := json.Unmarshal(data, &services)
	return &services, err
}

// GetVcapServices parses VCAP_SERVICES from the environment
func GetVcapServices() (*VcapServices, error) {
	return ParseVcapServices([]byte(os.Getenv(vcapServicesEnv)))
}

// VcapServices is a parsed VCAP_SERVICES JSON configuration
type VcapServices map[string][]VcapService

// FindServiceByName finds a service within VCAP_SERVICES, wherever it is nestled
func (s VcapServices) FindServiceByName(name string) *VcapService {
	for _, serviceArray := range s {
		for i := range serviceArray {
			if serviceArray[i].Name == name {
				return &serviceArray[i]
			}
		}
	}
	return nil
}

// FindServiceByTag returns the first service carrying the given tag
func (s VcapServices) FindServiceByTag(tag string) *VcapService {
	for _, serviceArray := range s {
		for i := range serviceArray {
			for _, t := range serviceArray[i].Tags {
				if t == tag {
					return &serviceArray[i]
				}
			}
		}
	}
	return nil
}

// GetServiceNames lists the names of every bound service
func (s VcapServices) GetServiceNames() []string {
	names := []string{}
	for _, serviceArray := range s {
		for _, service := range serviceArray {
			names = append(names, service.Name)
		}
	}
	return names
}

// VcapService is a parsed individual VCAP service; not all fields are parsed here
type VcapService struct {
	Name        string          `json:"name"`
	Tags        []string        `json:"tags"`
	Credentials VcapCredentials `json:"credentials"`
}

// VcapCredentials is a parsed map of VCAP credentials for a service
type VcapCredentials map[string]interface{}

// String recovers the value at the given key, assuming it is a string
func (c VcapCredentials) String(key string) (string, error) {
	if val, ok := c[key]; !ok {
		return "", fmt.Errorf("Credential key does not exist: %s", key)
	} else if valStr, ok := val.(string); ok {
		return valStr, nil
	} else {
		return "", fmt.Errorf("Could not convert value to string: key=%s, value=%v", key, val)
	}
}

// Int recovers the value at the given key. JSON numbers decode as float64, so
// whole-valued floats are accepted.
func (c VcapCredentials) Int(key string) (int, error) {
	val, ok := c[key]
	if !ok {
		return 0, fmt.Errorf("Credential key does not exist: %s", key)
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("Could not convert value to int: key=%s, value=%v", key, val)
}
