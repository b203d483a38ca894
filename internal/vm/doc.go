// Package vm provisions a CentOS VirtualBox machine with vboxmanage.
package vm
