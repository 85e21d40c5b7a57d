// Package hclmanifest loads install manifests written in HCL. A manifest is
// one or more .hcl files containing package blocks:
//
//	package "openssl" {
//	    depends_on     = ["zlib"]
//	    dev_depends_on = ["test-kit"]
//	    post_install   = "run c_rehash to refresh certificate links"
//
//	    source {
//	        type     = "archive"
//	        url      = "https://example.com/openssl-3.2.tar.gz"
//	        checksum = "sha256:..."
//	    }
//	}
//
// Unknown source attributes (checksum above) are evaluated as constants and
// passed to the installer as string options.
package hclmanifest
